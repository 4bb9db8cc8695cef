package app

// NoopEmailProvider используется в тестах и когда SMTP выключен в конфиге.
type NoopEmailProvider struct{}

func (m *NoopEmailProvider) Send(to, subject, body string) error { return nil }
