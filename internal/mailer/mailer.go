// Package mailer sends templated HTML email over SMTP.
package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"mime/quotedprintable"
	"net"
	"net/mail"
	"net/smtp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/EmpoweredVote/EV-Dashboard/internal/config"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrNotConfigured = errors.New("email transport is not configured")

type Message struct {
	To      string
	ReplyTo string
	Subject string
	HTML    string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTP delivers mail through a single relay. Each Send opens its own
// connection, so one SMTP value is safe for concurrent use.
type SMTP struct {
	host     string
	port     int
	secure   bool
	user     string
	password string
	from     mail.Address

	dialTimeout time.Duration
	sendTimeout time.Duration
}

func NewSMTP(cfg config.EmailConfig) *SMTP {
	from := cfg.From
	if from == "" {
		from = cfg.User
	}
	return &SMTP{
		host:        cfg.Host,
		port:        cfg.Port,
		secure:      cfg.Secure,
		user:        cfg.User,
		password:    cfg.Password,
		from:        mail.Address{Name: cfg.FromName, Address: from},
		dialTimeout: 10 * time.Second,
		sendTimeout: 30 * time.Second,
	}
}

var (
	sharedOnce sync.Once
	shared     Sender
)

// Shared returns the process-wide sender, created on first use. With no
// EMAIL_HOST every send fails with ErrNotConfigured.
func Shared(cfg config.EmailConfig) Sender {
	sharedOnce.Do(func() {
		if !cfg.Enabled() {
			zap.L().Warn("EMAIL_HOST not set; outgoing email disabled")
			shared = disabled{}
			return
		}
		shared = NewSMTP(cfg)
	})
	return shared
}

type disabled struct{}

func (disabled) Send(context.Context, Message) error { return ErrNotConfigured }

func (s *SMTP) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return errors.New("mailer: empty recipient")
	}
	raw, err := s.build(msg)
	if err != nil {
		return err
	}

	addr := net.JoinHostPort(s.host, strconv.Itoa(s.port))
	dialer := &net.Dialer{Timeout: s.dialTimeout}

	var conn net.Conn
	if s.secure {
		conn, err = (&tls.Dialer{NetDialer: dialer, Config: &tls.Config{ServerName: s.host}}).DialContext(ctx, "tcp", addr)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(s.sendTimeout)
	}
	_ = conn.SetDeadline(deadline)

	c, err := smtp.NewClient(conn, s.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer c.Close()

	if !s.secure {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(&tls.Config{ServerName: s.host}); err != nil {
				return fmt.Errorf("starttls: %w", err)
			}
		}
	}

	if s.user != "" {
		if ok, _ := c.Extension("AUTH"); ok {
			if err := c.Auth(smtp.PlainAuth("", s.user, s.password, s.host)); err != nil {
				return fmt.Errorf("smtp auth: %w", err)
			}
		}
	}

	if err := c.Mail(s.from.Address); err != nil {
		return fmt.Errorf("smtp MAIL FROM: %w", err)
	}
	if err := c.Rcpt(msg.To); err != nil {
		return fmt.Errorf("smtp RCPT TO: %w", err)
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp DATA: %w", err)
	}
	if _, err := w.Write(raw); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close data: %w", err)
	}

	if err := c.Quit(); err != nil {
		return fmt.Errorf("smtp quit: %w", err)
	}

	zap.L().Info("email sent", zap.String("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}

func (s *SMTP) build(msg Message) ([]byte, error) {
	to, err := mail.ParseAddress(msg.To)
	if err != nil {
		return nil, fmt.Errorf("mailer: bad recipient %q: %w", msg.To, err)
	}

	var b bytes.Buffer
	header := func(k, v string) { fmt.Fprintf(&b, "%s: %s\r\n", k, v) }

	header("From", s.from.String())
	header("To", to.String())
	if msg.ReplyTo != "" {
		if rt, err := mail.ParseAddress(msg.ReplyTo); err == nil {
			header("Reply-To", rt.String())
		}
	}
	header("Subject", mime.QEncoding.Encode("utf-8", msg.Subject))
	header("Date", time.Now().Format(time.RFC1123Z))
	header("Message-ID", "<"+uuid.NewString()+"@"+domainOf(s.from.Address)+">")
	header("MIME-Version", "1.0")
	header("Content-Type", `text/html; charset="utf-8"`)
	header("Content-Transfer-Encoding", "quoted-printable")
	b.WriteString("\r\n")

	qp := quotedprintable.NewWriter(&b)
	if _, err := qp.Write([]byte(msg.HTML)); err != nil {
		return nil, err
	}
	if err := qp.Close(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func domainOf(addr string) string {
	if i := strings.LastIndexByte(addr, '@'); i >= 0 && i < len(addr)-1 {
		return addr[i+1:]
	}
	return "localhost"
}
