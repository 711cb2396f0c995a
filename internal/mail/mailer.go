// Package mail sends notification email (interview invites, offer letters).
// External side effect only; nothing in the engine depends on its results.
package mail

import (
	"errors"
	"fmt"
	"mime"
	"net/smtp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type Mailer struct {
	Host     string
	Port     int
	From     string
	Username string
	// Password fetches the SMTP credential lazily (keyring-backed).
	Password func() (string, error)
}

func (m *Mailer) configured() bool {
	return m != nil && m.Host != "" && m.From != ""
}

// Send delivers one HTML message. A text/plain alternative is derived from
// the HTML so clients that refuse HTML still get something readable.
func (m *Mailer) Send(to, subject, html string) error {
	if !m.configured() {
		return errors.New("mail is not configured (mail.smtp_host)")
	}

	var auth smtp.Auth
	if m.Username != "" {
		pw, err := m.Password()
		if err != nil {
			return err
		}
		auth = smtp.PlainAuth("", m.Username, pw, m.Host)
	}

	msg := buildMessage(m.From, to, subject, html)
	addr := fmt.Sprintf("%s:%d", m.Host, m.Port)
	return smtp.SendMail(addr, auth, m.From, []string{to}, msg)
}

const altBoundary = "talent-engine-alt"

func buildMessage(from, to, subject, html string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n", altBoundary)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", altBoundary)
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(HTMLToText(html))
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", altBoundary)
	b.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	b.WriteString(html)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s--\r\n", altBoundary)
	return []byte(b.String())
}

// HTMLToText flattens an HTML body to plain text. On unparseable input the
// raw string comes back unchanged; a mangled text part beats no mail.
func HTMLToText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}
	doc.Find("br").Each(func(_ int, s *goquery.Selection) {
		s.ReplaceWithHtml("\n")
	})
	doc.Find("p, div, li, h1, h2, h3, h4, tr").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})
	text := doc.Text()
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		l = strings.TrimSpace(strings.Join(strings.Fields(l), " "))
		if l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}
