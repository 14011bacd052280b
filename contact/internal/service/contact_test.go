package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/velvetlane/storefront/contact/pkg/request"
)

type fakeSender struct {
	messages []*gomail.Message
	err      error
}

func (f *fakeSender) DialAndSend(m ...*gomail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, m...)
	return nil
}

func TestSendMessage(t *testing.T) {
	sender := &fakeSender{}
	svc := NewContactServiceWithSender(sender, "shop@example.com")

	err := svc.SendMessage(context.Background(), request.Contact{
		From:     "anna@example.com",
		Comments: "Is the wool coat back in stock?",
	})
	require.NoError(t, err)
	require.Len(t, sender.messages, 1)

	message := sender.messages[0]
	assert.Equal(t, []string{"shop@example.com"}, message.GetHeader("To"))
	assert.Contains(t, message.GetHeader("Reply-To")[0], "anna@example.com")
	assert.Contains(t, message.GetHeader("Subject")[0], "anna@example.com")
}
