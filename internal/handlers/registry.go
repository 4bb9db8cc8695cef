package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler      *AuthHandler
	UserHandler      *UserHandler
	PaintingHandler  *PaintingHandler
	ExpertiseHandler *ExpertiseHandler
}
