// Package barcode builds the slip barcode payload and renders it as a
// code128 image. Rendering is best-effort: a slip without an image is still
// a valid slip, so failures degrade to an empty string instead of erroring.
package barcode

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"time"

	bc "github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/rs/zerolog"
)

// Data is the canonical barcode payload: patient ID, the visit or admission
// ID the slip covers, and the generation instant. The timestamp segment is
// what makes two slips for the same record distinguishable.
func Data(patientID, recordID string, at time.Time) string {
	return fmt.Sprintf("%s-%s-%d", patientID, recordID, at.Unix())
}

type Renderer interface {
	// Render returns a base64 PNG data URI for the payload, or "" when
	// encoding fails.
	Render(data string) string
}

type Code128Renderer struct {
	log    zerolog.Logger
	width  int
	height int
}

func NewCode128Renderer(log zerolog.Logger) *Code128Renderer {
	return &Code128Renderer{log: log, width: 300, height: 80}
}

func (r *Code128Renderer) Render(data string) string {
	if data == "" {
		return ""
	}

	code, err := code128.Encode(data)
	if err != nil {
		r.log.Warn().Err(err).Str("data", data).Msg("barcode encode failed")
		return ""
	}

	scaled, err := bc.Scale(code, r.width, r.height)
	if err != nil {
		r.log.Warn().Err(err).Str("data", data).Msg("barcode scale failed")
		return ""
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		r.log.Warn().Err(err).Msg("barcode png encode failed")
		return ""
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}
