package mail

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DevSender writes each message to dir as an .html body plus a .json
// envelope instead of sending it.
type DevSender struct {
	dir string
	now func() time.Time
}

func NewDevSender(dir string) *DevSender {
	return &DevSender{dir: dir, now: time.Now}
}

type devEnvelope struct {
	Timestamp string `json:"timestamp"`
	To        string `json:"to"`
	Subject   string `json:"subject"`
	Tag       string `json:"tag,omitempty"`
}

var unsafeFilename = regexp.MustCompile(`[^a-z0-9\-_.]`)

func (d *DevSender) Send(_ context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("%w: create dir: %v", ErrFailedToSend, err)
	}

	now := d.now()
	name := msg.Tag
	if name == "" {
		name = msg.Subject
	}
	name = unsafeFilename.ReplaceAllString(strings.ToLower(strings.ReplaceAll(name, " ", "_")), "")
	// Suffix keeps messages sent within the same second apart.
	base := fmt.Sprintf("%s_%s_%s", now.Format("2006_01_02_150405"), name, uuid.NewString()[:8])

	if err := os.WriteFile(filepath.Join(d.dir, base+".html"), []byte(msg.Body), 0o644); err != nil {
		return fmt.Errorf("%w: write body: %v", ErrFailedToSend, err)
	}
	meta, err := json.MarshalIndent(devEnvelope{
		Timestamp: now.Format(time.RFC3339),
		To:        msg.To,
		Subject:   msg.Subject,
		Tag:       msg.Tag,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal envelope: %v", ErrFailedToSend, err)
	}
	if err := os.WriteFile(filepath.Join(d.dir, base+".json"), meta, 0o644); err != nil {
		return fmt.Errorf("%w: write envelope: %v", ErrFailedToSend, err)
	}
	return nil
}
