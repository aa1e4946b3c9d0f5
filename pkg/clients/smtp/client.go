package smtp

import (
	"context"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/navarrastar/helpdesk-form/pkg/models"
)

// Client defines the interface for the outbound mail relay
type Client interface {
	// Verify opens and authenticates a connection to the relay, then closes it.
	Verify(ctx context.Context) error
	// Send delivers a single notification. No retry is attempted.
	Send(ctx context.Context, n *models.Notification) error
}

// Options are the relay connection parameters.
type Options struct {
	Host     string
	Port     int
	Secure   bool
	Username string
	Password string
	Timeout  time.Duration
}

type clientImpl struct {
	opts Options
}

// NewClient creates a new SMTP relay client
func NewClient(opts Options) Client {
	return &clientImpl{opts: opts}
}

func (c *clientImpl) dialer() (*mail.Client, error) {
	mailOpts := []mail.Option{
		mail.WithPort(c.opts.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(c.opts.Username),
		mail.WithPassword(c.opts.Password),
	}
	if c.opts.Secure {
		mailOpts = append(mailOpts, mail.WithSSL())
	} else {
		mailOpts = append(mailOpts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}
	if c.opts.Timeout > 0 {
		mailOpts = append(mailOpts, mail.WithTimeout(c.opts.Timeout))
	}

	client, err := mail.NewClient(c.opts.Host, mailOpts...)
	if err != nil {
		return nil, fmt.Errorf("error configuring SMTP client: %w", err)
	}
	return client, nil
}

func (c *clientImpl) Verify(ctx context.Context) error {
	client, err := c.dialer()
	if err != nil {
		return err
	}
	if err := client.DialWithContext(ctx); err != nil {
		return fmt.Errorf("error connecting to SMTP relay %s:%d: %w", c.opts.Host, c.opts.Port, err)
	}
	if err := client.Close(); err != nil {
		return fmt.Errorf("error closing SMTP connection: %w", err)
	}
	return nil
}

func (c *clientImpl) Send(ctx context.Context, n *models.Notification) error {
	msg, err := BuildMessage(n)
	if err != nil {
		return err
	}

	client, err := c.dialer()
	if err != nil {
		return err
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("error sending email: %w", err)
	}
	return nil
}

// BuildMessage converts a notification into a multipart/alternative message.
func BuildMessage(n *models.Notification) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.FromFormat(n.FromName, n.FromAddress); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(n.To); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	if n.ReplyTo != "" {
		if err := msg.ReplyTo(n.ReplyTo); err != nil {
			return nil, fmt.Errorf("invalid reply-to address: %w", err)
		}
	}
	msg.Subject(n.Subject)
	msg.SetDate()
	msg.SetMessageID()
	msg.SetBodyString(mail.TypeTextPlain, n.Text)
	if n.HTML != "" {
		msg.AddAlternativeString(mail.TypeTextHTML, n.HTML)
	}
	return msg, nil
}
