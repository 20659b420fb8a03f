package mailer

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"
)

// SMTPConfig is the connection configuration of one relay provider.
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// Addr returns the host:port dial address.
func (c SMTPConfig) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// Message is one composed mail ready for dispatch.
type Message struct {
	To      string
	CC      []string
	BCC     []string
	Subject string
	Body    string
}

// Transport abstracts the SMTP relay so dispatch can be tested without a
// network. Verify must be cheap; Send delivers one message.
type Transport interface {
	Verify(ctx context.Context, cfg SMTPConfig) error
	Send(ctx context.Context, cfg SMTPConfig, msg Message) error
}

// SMTPTransport is the production Transport over net/smtp.
type SMTPTransport struct {
	DialTimeout time.Duration
}

// Verify dials the relay and issues a NOOP to prove the configuration works
// before any send is attempted.
func (t *SMTPTransport) Verify(ctx context.Context, cfg SMTPConfig) error {
	timeout := t.DialTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	dialer := &net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", cfg.Addr())
	if err != nil {
		return fmt.Errorf("dial smtp %s: %w", cfg.Addr(), err)
	}
	client, err := smtp.NewClient(conn, cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake %s: %w", cfg.Addr(), err)
	}
	defer client.Close()
	if err := client.Noop(); err != nil {
		return fmt.Errorf("smtp noop %s: %w", cfg.Addr(), err)
	}
	return client.Quit()
}

// Send delivers one message through the relay with PLAIN auth.
func (t *SMTPTransport) Send(ctx context.Context, cfg SMTPConfig, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	recipients := append([]string{msg.To}, msg.CC...)
	recipients = append(recipients, msg.BCC...)

	auth := smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	if err := smtp.SendMail(cfg.Addr(), auth, cfg.From, recipients, composeMessage(cfg.From, msg)); err != nil {
		return fmt.Errorf("smtp send to %s: %w", msg.To, err)
	}
	return nil
}

func composeMessage(from string, msg Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", headerValue(from))
	fmt.Fprintf(&b, "To: %s\r\n", headerValue(msg.To))
	if len(msg.CC) > 0 {
		cc := make([]string, len(msg.CC))
		for i, addr := range msg.CC {
			cc[i] = headerValue(addr)
		}
		fmt.Fprintf(&b, "Cc: %s\r\n", strings.Join(cc, ", "))
	}
	fmt.Fprintf(&b, "Subject: %s\r\n", headerValue(msg.Subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	return []byte(b.String())
}

// headerValue strips CR and LF so caller-supplied values cannot inject
// additional headers.
func headerValue(v string) string {
	v = strings.ReplaceAll(v, "\r", " ")
	v = strings.ReplaceAll(v, "\n", " ")
	return strings.TrimSpace(v)
}

var _ Transport = (*SMTPTransport)(nil)
