package email

// Provider определяет интерфейс для отправки email-уведомлений.
// Ядро шлет письма при формировании и разрешении заявок;
// результат отправки не влияет на исход операции.
type Provider interface {
	Send(to, subject, body string) error
}
