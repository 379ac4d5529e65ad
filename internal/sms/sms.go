// Package sms sends SMS notifications via SNS with phone validation,
// quiet-hours checks and length handling.
package sms

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// US phone number in E.164 format: +1 then a ten-digit number whose area
// code cannot start with 0 or 1.
var phoneRx = regexp.MustCompile(`^\+1[2-9]\d{9}$`)

// SMS character limits.
const (
	SingleLimit  = 160
	MultiSegment = 153
)

// ErrOutsideWindow is returned when a send is attempted outside the
// allowed hours.
var ErrOutsideWindow = errors.New("outside allowed SMS sending window")

// ValidPhone reports whether phone is a US number in E.164 format.
func ValidPhone(phone string) bool {
	return phoneRx.MatchString(phone)
}

// WithinSendWindow reports whether the UTC hour falls inside 8am-8pm for at
// least one US timezone (UTC-5 through UTC-8), i.e. 13:00 UTC through 03:59
// UTC the next day.
func WithinSendWindow(t time.Time) bool {
	hour := t.UTC().Hour()
	return hour >= 13 || hour < 4
}

// Truncate shortens a message to maxLen, reserving room for an ellipsis.
func Truncate(message string, maxLen int) string {
	if len(message) <= maxLen {
		return message
	}
	return message[:maxLen-3] + "..."
}

// SNSAPI is the subset of the SNS client the sender needs.
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Sender publishes SMS messages via SNS.
type Sender struct {
	SNS      SNSAPI
	SenderID string // displayed sender ID, max 11 chars
	// CheckWindow gates sends on the quiet-hours window.
	CheckWindow bool
	// now is swappable for tests.
	Now func() time.Time
}

// Send validates the phone number and window, truncates the message to a
// single segment, and publishes. Returns the SNS message ID.
func (s *Sender) Send(ctx context.Context, phone, message string) (string, error) {
	if !ValidPhone(phone) {
		return "", fmt.Errorf("invalid US phone number format: %s (want E.164 +1XXXXXXXXXX)", phone)
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	if s.CheckWindow && !WithinSendWindow(now()) {
		return "", ErrOutsideWindow
	}
	attrs := map[string]snstypes.MessageAttributeValue{
		"AWS.SNS.SMS.SMSType": {DataType: aws.String("String"), StringValue: aws.String("Transactional")},
	}
	if s.SenderID != "" {
		attrs["AWS.SNS.SMS.SenderID"] = snstypes.MessageAttributeValue{
			DataType: aws.String("String"), StringValue: aws.String(s.SenderID),
		}
	}
	out, err := s.SNS.Publish(ctx, &sns.PublishInput{
		PhoneNumber:       aws.String(phone),
		Message:           aws.String(Truncate(message, SingleLimit)),
		MessageAttributes: attrs,
	})
	if err != nil {
		return "", fmt.Errorf("sns publish: %w", err)
	}
	return aws.ToString(out.MessageId), nil
}

// UploadLinkMessage builds the short upload-link SMS.
func UploadLinkMessage(firstName, uploadURL string, daysValid int) string {
	return fmt.Sprintf("Hi %s, upload your tax docs: %s (valid %dd). Reply STOP to opt out.",
		firstName, uploadURL, daysValid)
}

// ReminderMessage builds the short missing-documents reminder SMS.
func ReminderMessage(firstName string, missingCount int, uploadURL string) string {
	plural := "s"
	if missingCount == 1 {
		plural = ""
	}
	return fmt.Sprintf("Hi %s, we still need %d tax document%s from you. Upload: %s Reply STOP to opt out.",
		firstName, missingCount, plural, uploadURL)
}
