package delivery

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"mime"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const lineLength = 76

// Envelope addresses a message.
type Envelope struct {
	From string
	To   []string
}

// Compose builds a multipart/mixed message with the body as text/plain and
// each attachment base64-encoded.
func Compose(env Envelope, msg Message, now time.Time) ([]byte, error) {
	var buf bytes.Buffer

	mw := multipart.NewWriter(&buf)

	domain := "localhost"
	if _, host, ok := strings.Cut(env.From, "@"); ok && host != "" {
		domain = strings.TrimSuffix(host, ">")
	}

	header := fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"Date: %s\r\n"+
			"Message-ID: <%s@%s>\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: multipart/mixed; boundary=%q\r\n"+
			"\r\n",
		env.From,
		strings.Join(env.To, ", "),
		mime.QEncoding.Encode("utf-8", msg.Subject),
		now.Format(time.RFC1123Z),
		uuid.NewString(), domain,
		mw.Boundary(),
	)

	var out bytes.Buffer
	out.WriteString(header)

	body, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {`text/plain; charset="UTF-8"`},
		"Content-Transfer-Encoding": {"8bit"},
	})
	if err != nil {
		return nil, err
	}

	if _, err := body.Write([]byte(msg.Body + "\r\n")); err != nil {
		return nil, err
	}

	for _, path := range msg.Attachments {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read attachment: %w", err)
		}

		name := filepath.Base(path)

		contentType := mime.TypeByExtension(filepath.Ext(name))
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		part, err := mw.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {contentType},
			"Content-Transfer-Encoding": {"base64"},
			"Content-Disposition":       {mime.FormatMediaType("attachment", map[string]string{"filename": name})},
		})
		if err != nil {
			return nil, err
		}

		if _, err := part.Write(wrap(base64.StdEncoding.EncodeToString(data))); err != nil {
			return nil, err
		}
	}

	if err := mw.Close(); err != nil {
		return nil, err
	}

	out.Write(buf.Bytes())

	return out.Bytes(), nil
}

func wrap(s string) []byte {
	var b bytes.Buffer

	for len(s) > lineLength {
		b.WriteString(s[:lineLength] + "\r\n")
		s = s[lineLength:]
	}

	b.WriteString(s + "\r\n")

	return b.Bytes()
}
