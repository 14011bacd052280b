package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"github.com/velvetlane/storefront/contact/pkg/request"
	"github.com/velvetlane/storefront/internal/config"
	"github.com/velvetlane/storefront/internal/constants"
	inOtel "github.com/velvetlane/storefront/internal/otel"
)

// Sender delivers one message. gomail's Dialer satisfies it.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// ContactService relays contact form messages to the shop mailbox. The
// visitor's address goes into Reply-To so staff can answer directly.
type ContactService struct {
	sender  Sender
	mailbox string
}

func NewContactService(cfg config.Smtp) *ContactService {
	return &ContactService{
		sender:  gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		mailbox: cfg.Mailbox,
	}
}

func NewContactServiceWithSender(sender Sender, mailbox string) *ContactService {
	return &ContactService{sender: sender, mailbox: mailbox}
}

func (s *ContactService) SendMessage(c context.Context, reqBody request.Contact) error {
	c, span := inOtel.Tracer.Start(c, "ContactService SendMessage")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ContactService SendMessage").
		Str(constants.KEY_EMAIL, reqBody.From).
		Str(constants.KEY_PROCESS, "sending contact message").
		Logger()
	logger.Info().Msg("sending contact message")
	span.AddEvent("sending contact message")

	message := gomail.NewMessage()
	message.SetHeader("From", s.mailbox)
	message.SetHeader("To", s.mailbox)
	message.SetHeader("Reply-To", reqBody.From)
	message.SetHeader("Subject", fmt.Sprintf("Contact form message from %s", reqBody.From))
	message.SetBody("text/plain", reqBody.Comments)

	err := s.sender.DialAndSend(message)
	if err != nil {
		err = fmt.Errorf("failed sending contact message with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}

	logger.Info().Msg("sent contact message")
	span.AddEvent("sent contact message")
	return nil
}
