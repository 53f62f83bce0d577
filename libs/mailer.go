package libs

import (
	"fmt"
	"html"

	"gopkg.in/gomail.v2"

	"stem-orders/models"
)

type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewMailer(host string, port int, user, pass, from string) *Mailer {
	if from == "" {
		from = user
	}
	return &Mailer{
		dialer: gomail.NewDialer(host, port, user, pass),
		from:   from,
	}
}

func (m *Mailer) SendOrderConfirmation(rec models.OrderRecord) error {
	if err := m.dialer.DialAndSend(m.orderConfirmation(rec)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (m *Mailer) orderConfirmation(rec models.OrderRecord) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", rec.Email)
	msg.SetHeader("Subject", "Order Confirmation - STEM Explorer")

	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background-color: white; padding: 30px; border-radius: 10px; }
        .order-box { background-color: #eff6ff; padding: 20px; margin: 20px 0; border-radius: 8px; }
        .footer { text-align: center; margin-top: 30px; color: #666; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <h2 style="color: #333;">Order Confirmation</h2>
        <p>Hello %s,</p>
        <p>Thank you for ordering STEM Explorer!</p>

        <div class="order-box">
            <p><strong>Option:</strong> %s</p>
            <p><strong>Quantity:</strong> %d</p>
            <p><strong>Total:</strong> RM %s</p>
            <p><strong>Delivery address:</strong> %s</p>
        </div>

        <p>Your receipt has been uploaded and linked to your order. We'll verify it and contact you soon.</p>

        <div class="footer">
            <p>This is an automated email. Please do not reply.</p>
        </div>
    </div>
</body>
</html>
	`,
		html.EscapeString(rec.Name),
		html.EscapeString(string(rec.Option)),
		rec.Quantity,
		models.FormatMoney(rec.TotalCost),
		html.EscapeString(rec.Address),
	)

	msg.SetBody("text/html", body)
	return msg
}
