package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"github.com/iliyamo/auth-service/internal/model"
)

const (
	TagVerification = "email-verification"
	TagRecovery     = "password-recovery"
)

var (
	verificationTmpl = template.Must(template.New("verification").Parse(
		`<p>Hi {{.Username}},</p>
<p>Confirm your email address to activate your account:</p>
<p><a href="{{.Link}}">{{.Link}}</a></p>`))
	recoveryTmpl = template.Must(template.New("recovery").Parse(
		`<p>Hi {{.Username}},</p>
<p>Someone asked to reset your password. The link below is valid for a few minutes:</p>
<p><a href="{{.Link}}">{{.Link}}</a></p>
<p>If it wasn't you, ignore this message.</p>`))
)

// Notifier renders the verification and recovery links and hands the
// message to a Sender.
type Notifier struct {
	baseURL string
	sender  Sender
}

// NewNotifier returns a Notifier building links under baseURL, for example
// https://auth.example.com.
func NewNotifier(baseURL string, sender Sender) *Notifier {
	return &Notifier{baseURL: strings.TrimRight(baseURL, "/"), sender: sender}
}

func (n *Notifier) SendVerification(ctx context.Context, to model.Recipient, token, callback string) error {
	link := n.link("/api/v1/register/validation/", token, callback)
	return n.send(ctx, to, "Confirm your email", TagVerification, verificationTmpl, link)
}

func (n *Notifier) SendRecovery(ctx context.Context, to model.Recipient, token, callback string) error {
	link := n.link("/api/v1/password/", token, callback)
	return n.send(ctx, to, "Reset your password", TagRecovery, recoveryTmpl, link)
}

func (n *Notifier) link(prefix, token, callback string) string {
	u := n.baseURL + prefix + url.PathEscape(token)
	if callback != "" {
		u += "?" + url.Values{"callback": {callback}}.Encode()
	}
	return u
}

func (n *Notifier) send(ctx context.Context, to model.Recipient, subject, tag string, tmpl *template.Template, link string) error {
	var body bytes.Buffer
	if err := tmpl.Execute(&body, struct{ Username, Link string }{to.Username, link}); err != nil {
		return fmt.Errorf("render %s: %w", tag, err)
	}
	return n.sender.Send(ctx, Message{To: to.Email, Subject: subject, Body: body.String(), Tag: tag})
}
