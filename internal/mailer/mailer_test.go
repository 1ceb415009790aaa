package mailer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
)

type fakeSES struct {
	in  *ses.SendEmailInput
	err error
}

func (f *fakeSES) SendEmail(_ context.Context, in *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.in = in
	return &ses.SendEmailOutput{MessageId: aws.String("m-1")}, f.err
}

func TestSESSend(t *testing.T) {
	fake := &fakeSES{}
	m := &SES{client: fake, sender: "hub@example.com"}
	if err := m.Send(context.Background(), Welcome("a@example.com", "Alex")); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if got := aws.ToString(fake.in.Source); got != "hub@example.com" {
		t.Errorf("source = %q", got)
	}
	if to := fake.in.Destination.ToAddresses; len(to) != 1 || to[0] != "a@example.com" {
		t.Errorf("to = %v", to)
	}
	if body := aws.ToString(fake.in.Message.Body.Text.Data); !strings.HasPrefix(body, "Hi Alex,") {
		t.Errorf("body = %q", body)
	}
}

func TestSESSendError(t *testing.T) {
	m := &SES{client: &fakeSES{err: errors.New("throttled")}, sender: "hub@example.com"}
	if err := m.Send(context.Background(), Message{To: "a@example.com"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestNewWithoutSender(t *testing.T) {
	if _, ok := New(context.Background(), "us-east-1", "").(LogMailer); !ok {
		t.Fatal("expected LogMailer without sender")
	}
}
