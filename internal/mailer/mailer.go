// Package mailer sends transactional email.  Production uses Amazon SES;
// without a configured sender the LogMailer writes messages to the log.
package mailer

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// Message is a plain-text email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer delivers a Message.
type Mailer interface {
	Send(ctx context.Context, m Message) error
}

// sesAPI is the subset of *ses.Client used here.
type sesAPI interface {
	SendEmail(ctx context.Context, in *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SES sends through Amazon Simple Email Service.
type SES struct {
	client sesAPI
	sender string
}

// NewSES loads the default AWS credential chain for region.
func NewSES(ctx context.Context, region, sender string) (*SES, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}
	return &SES{client: ses.NewFromConfig(cfg), sender: sender}, nil
}

func (s *SES) Send(ctx context.Context, m Message) error {
	_, err := s.client.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{ToAddresses: []string{m.To}},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(m.Subject)},
			Body:    &types.Body{Text: &types.Content{Data: aws.String(m.Body)}},
		},
		Source: aws.String(s.sender),
	})
	if err != nil {
		return fmt.Errorf("ses send to %s: %w", m.To, err)
	}
	return nil
}

// LogMailer logs instead of sending.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, m Message) error {
	log.Printf("mailer: (not sent) to=%s subject=%q", m.To, m.Subject)
	return nil
}

// New returns an SES mailer when sender is set and AWS config loads, and a
// LogMailer otherwise.
func New(ctx context.Context, region, sender string) Mailer {
	if sender == "" {
		return LogMailer{}
	}
	m, err := NewSES(ctx, region, sender)
	if err != nil {
		log.Printf("mailer: falling back to log mailer: %v", err)
		return LogMailer{}
	}
	return m
}

// Welcome is sent when a verification request is approved.
func Welcome(to, name string) Message {
	greeting := "Hi"
	if name != "" {
		greeting = "Hi " + name
	}
	return Message{
		To:      to,
		Subject: "You're verified",
		Body: greeting + ",\n\nYour membership request was approved. " +
			"Sign in again to see the stock list, report items that ran out and send suggestions.\n",
	}
}
