package models

type UserRole string
type ExpertiseStatus string
type ResolutionOutcome string

const (
	UserRoleClient  UserRole = "client"
	UserRoleManager UserRole = "manager"

	ExpertiseStatusDraft     ExpertiseStatus = "draft"
	ExpertiseStatusSubmitted ExpertiseStatus = "submitted"
	ExpertiseStatusDeleted   ExpertiseStatus = "deleted"
	ExpertiseStatusCompleted ExpertiseStatus = "completed"
	ExpertiseStatusRejected  ExpertiseStatus = "rejected"

	OutcomeApproved ResolutionOutcome = "approved"
	OutcomeRejected ResolutionOutcome = "rejected"
)

// ValidExpertiseStatus проверяет, что строка - один из известных статусов заявки
func ValidExpertiseStatus(s ExpertiseStatus) bool {
	switch s {
	case ExpertiseStatusDraft, ExpertiseStatusSubmitted, ExpertiseStatusDeleted,
		ExpertiseStatusCompleted, ExpertiseStatusRejected:
		return true
	}
	return false
}

// IsTerminal - из этих статусов переходов больше нет
func (s ExpertiseStatus) IsTerminal() bool {
	switch s {
	case ExpertiseStatusDeleted, ExpertiseStatusCompleted, ExpertiseStatusRejected:
		return true
	}
	return false
}

// Valid проверяет вердикт менеджера
func (o ResolutionOutcome) Valid() bool {
	return o == OutcomeApproved || o == OutcomeRejected
}

// Result - булево значение вердикта для записи в заявку и её элементы
func (o ResolutionOutcome) Result() bool {
	return o == OutcomeApproved
}

// Status возвращает конечный статус заявки для вердикта
func (o ResolutionOutcome) Status() ExpertiseStatus {
	if o == OutcomeApproved {
		return ExpertiseStatusCompleted
	}
	return ExpertiseStatusRejected
}
