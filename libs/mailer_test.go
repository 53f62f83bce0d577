package libs

import (
	"bytes"
	"io"
	"mime/quotedprintable"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stem-orders/models"
)

func TestMailer_OrderConfirmation(t *testing.T) {
	m := NewMailer("smtp.example.com", 587, "orders@example.com", "pass", "")

	msg := m.orderConfirmation(models.OrderRecord{
		Name:      "Jane <Doe>",
		Email:     "jane@example.com",
		Address:   "1 Jalan Ampang",
		Option:    models.OptionBookAndKit,
		Quantity:  1,
		TotalCost: decimal.NewFromInt(155),
	})

	assert.Equal(t, []string{"orders@example.com"}, msg.GetHeader("From"), "sender falls back to the SMTP user")
	assert.Equal(t, []string{"jane@example.com"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"Order Confirmation - STEM Explorer"}, msg.GetHeader("Subject"))

	var raw bytes.Buffer
	_, err := msg.WriteTo(&raw)
	require.NoError(t, err)

	parts := strings.SplitN(raw.String(), "\r\n\r\n", 2)
	require.Len(t, parts, 2)
	body, err := io.ReadAll(quotedprintable.NewReader(strings.NewReader(parts[1])))
	require.NoError(t, err)

	assert.Contains(t, string(body), "Jane &lt;Doe&gt;")
	assert.Contains(t, string(body), "RM 155.00")
	assert.Contains(t, string(body), "Book + Arduino Kit")
}
