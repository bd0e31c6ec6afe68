package delivery

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"net/smtp"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sentAt = time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)

type parsedPart struct {
	contentType string
	filename    string
	body        string
}

func parse(t *testing.T, data []byte) (*mail.Message, []parsedPart) {
	t.Helper()

	m, err := mail.ReadMessage(bytes.NewReader(data))
	require.NoError(t, err)

	mediaType, params, err := mime.ParseMediaType(m.Header.Get("Content-Type"))
	require.NoError(t, err)
	require.Equal(t, "multipart/mixed", mediaType)

	var parts []parsedPart

	mr := multipart.NewReader(m.Body, params["boundary"])
	for {
		p, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)

		raw, err := io.ReadAll(p)
		require.NoError(t, err)

		body := string(raw)
		if p.Header.Get("Content-Transfer-Encoding") == "base64" {
			decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(body, "\r\n", ""))
			require.NoError(t, err)

			body = string(decoded)
		}

		parts = append(parts, parsedPart{
			contentType: p.Header.Get("Content-Type"),
			filename:    p.FileName(),
			body:        body,
		})
	}

	return m, parts
}

func writeReport(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestCompose(t *testing.T) {
	report := strings.Repeat("Date: 2024-01-05 10:00 | Revenue: $50.00\n", 10)
	path := writeReport(t, "revenue_report_summary.txt", report)

	data, err := Compose(
		Envelope{From: "register@supersaving.lk", To: []string{"salesteam@supersaving.lk"}},
		Message{Subject: DefaultSubject, Body: DefaultBody, Attachments: []string{path}},
		sentAt,
	)
	require.NoError(t, err)

	m, parts := parse(t, data)

	assert.Equal(t, "Super-Saving Revenue Report", m.Header.Get("Subject"))
	assert.Equal(t, "salesteam@supersaving.lk", m.Header.Get("To"))
	assert.True(t, strings.HasSuffix(m.Header.Get("Message-ID"), "@supersaving.lk>"))

	date, err := m.Header.Date()
	require.NoError(t, err)
	assert.True(t, sentAt.Equal(date))

	require.Len(t, parts, 2)
	assert.Equal(t, DefaultBody+"\r\n", parts[0].body)
	assert.Equal(t, "revenue_report_summary.txt", parts[1].filename)
	assert.Equal(t, report, parts[1].body)
}

func TestCompose_MissingAttachment(t *testing.T) {
	_, err := Compose(Envelope{From: "a@b.c"}, Message{Attachments: []string{filepath.Join(t.TempDir(), "nope.txt")}}, sentAt)
	assert.Error(t, err)
}

func TestSMTP_Send(t *testing.T) {
	path := writeReport(t, "report.txt", "Total Revenue: $50.00\n")

	type testCase struct {
		name     string
		cfg      SMTPConfig
		sendErr  error
		wantSent bool
		wantErr  bool
	}

	tests := []testCase{
		{
			name: "Success",
			cfg: SMTPConfig{
				Host: "smtp.gmail.com", Port: 587, Username: "register", Password: "secret",
				From: "register@supersaving.lk", To: []string{"salesteam@supersaving.lk"},
			},
			wantSent: true,
		},
		{
			name: "RelayError",
			cfg: SMTPConfig{
				Host: "smtp.gmail.com", Port: 587,
				From: "register@supersaving.lk", To: []string{"salesteam@supersaving.lk"},
			},
			sendErr:  errors.New("535 authentication failed"),
			wantSent: true,
			wantErr:  true,
		},
		{
			name:    "NoRecipient",
			cfg:     SMTPConfig{Host: "smtp.gmail.com", Port: 587, From: "register@supersaving.lk"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				sent     bool
				gotAddr  string
				gotTo    []string
				gotBytes []byte
			)

			s := NewSMTP(tt.cfg)
			s.now = func() time.Time { return sentAt }
			s.send = func(addr string, _ smtp.Auth, _ string, to []string, msg []byte) error {
				sent = true
				gotAddr, gotTo, gotBytes = addr, to, msg

				return tt.sendErr
			}

			err := s.Send(context.Background(), Message{Subject: DefaultSubject, Body: DefaultBody, Attachments: []string{path}})

			assert.Equal(t, tt.wantSent, sent)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "smtp.gmail.com:587", gotAddr)
			assert.Equal(t, tt.cfg.To, gotTo)

			_, parts := parse(t, gotBytes)
			require.Len(t, parts, 2)
			assert.Equal(t, "Total Revenue: $50.00\n", parts[1].body)
		})
	}
}

func TestOutbox_Send(t *testing.T) {
	dir := t.TempDir()
	path := writeReport(t, "report.txt", "Total Revenue: $0.00\n")

	o := NewOutbox(dir, Envelope{From: "register@supersaving.lk", To: []string{"salesteam@supersaving.lk"}})
	o.now = func() time.Time { return sentAt }

	require.NoError(t, o.Send(context.Background(), Message{Subject: DefaultSubject, Body: DefaultBody, Attachments: []string{path}}))

	files, err := filepath.Glob(filepath.Join(dir, "*.eml"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)

	m, parts := parse(t, data)
	assert.Equal(t, DefaultSubject, m.Header.Get("Subject"))
	require.Len(t, parts, 2)
	assert.Equal(t, "report.txt", parts[1].filename)
}

func TestSinks_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, NewSMTP(SMTPConfig{To: []string{"x@y.z"}}).Send(ctx, Message{}), context.Canceled)
	assert.ErrorIs(t, NewOutbox(t.TempDir(), Envelope{}).Send(ctx, Message{}), context.Canceled)
	assert.NoError(t, Nop{}.Send(ctx, Message{}))
}
