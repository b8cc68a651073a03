// internal/common/aws/aws_test.go
package aws

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSES struct {
	input *ses.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("ses-msg-1")}, nil
}

type fakeSNS struct {
	input *sns.PublishInput
	err   error
}

func (f *fakeSNS) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{MessageId: aws.String("sns-msg-1")}, nil
}

func TestSESClient_Send(t *testing.T) {
	api := &fakeSES{}
	client := NewSESClientWithAPI(api, "portfolio@example.com")

	id, err := client.Send(context.Background(), Email{
		To:       []string{"partner@example.com"},
		Subject:  "Portfolio summary",
		TextBody: "2 bootcamp candidates",
	})

	require.NoError(t, err)
	assert.Equal(t, "ses-msg-1", id)
	assert.Equal(t, "portfolio@example.com", aws.ToString(api.input.Source))
	assert.Equal(t, []string{"partner@example.com"}, api.input.Destination.ToAddresses)
	assert.Equal(t, "Portfolio summary", aws.ToString(api.input.Message.Subject.Data))
	assert.Nil(t, api.input.Message.Body.Html)
}

func TestSESClient_Send_NoRecipients(t *testing.T) {
	api := &fakeSES{}
	_, err := NewSESClientWithAPI(api, "from@example.com").Send(context.Background(), Email{Subject: "x"})
	assert.Error(t, err)
	assert.Nil(t, api.input)
}

func TestSESClient_Send_Error(t *testing.T) {
	api := &fakeSES{err: errors.New("throttled")}
	_, err := NewSESClientWithAPI(api, "from@example.com").Send(context.Background(), Email{To: []string{"a@b.c"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}

func TestSNSClient_SendSMS(t *testing.T) {
	api := &fakeSNS{}
	client := NewSNSClientWithAPI(api, "PORTFOLIO")

	id, err := client.SendSMS(context.Background(), "+15550100", "High priority lead")

	require.NoError(t, err)
	assert.Equal(t, "sns-msg-1", id)
	assert.Equal(t, "+15550100", aws.ToString(api.input.PhoneNumber))
	assert.Equal(t, "PORTFOLIO", aws.ToString(api.input.MessageAttributes["AWS.SNS.SMS.SenderID"].StringValue))
	assert.Equal(t, "Transactional", aws.ToString(api.input.MessageAttributes["AWS.SNS.SMS.SMSType"].StringValue))
}

func TestSNSClient_SendSMS_Error(t *testing.T) {
	api := &fakeSNS{err: errors.New("opted out")}
	_, err := NewSNSClientWithAPI(api, "").SendSMS(context.Background(), "+15550100", "hi")
	require.Error(t, err)
	_, hasSender := api.input.MessageAttributes["AWS.SNS.SMS.SenderID"]
	assert.False(t, hasSender)
}
