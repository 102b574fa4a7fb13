package sms

import (
	"bytes"
	"encoding/xml"
)

// twimlResponse is the provider's markup reply format for SMS webhooks.
// Only the Message verb is needed at this boundary.
type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Message *string  `xml:"Message,omitempty"`
}

// RenderReply builds the TwiML body carrying one reply message.
func RenderReply(text string) string {
	return render(twimlResponse{Message: &text})
}

// RenderEmpty builds an empty TwiML body. Used for duplicate webhook
// deliveries, where replying again would double-text the tenant.
func RenderEmpty() string {
	return render(twimlResponse{})
}

func render(r twimlResponse) string {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	// Encoding can only fail on unserializable types; this struct has none.
	_ = enc.Encode(r)
	_ = enc.Flush()
	return buf.String()
}
