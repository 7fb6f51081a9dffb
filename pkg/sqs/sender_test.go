package sqs

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

type fakeSQS struct {
	urlCalls int
	sent     []*sqs.SendMessageInput
	urlErr   error
}

func (f *fakeSQS) GetQueueUrl(_ context.Context, params *sqs.GetQueueUrlInput, _ ...func(*sqs.Options)) (*sqs.GetQueueUrlOutput, error) {
	f.urlCalls++
	if f.urlErr != nil {
		return nil, f.urlErr
	}
	url := "https://sqs.local/000000000000/" + *params.QueueName
	return &sqs.GetQueueUrlOutput{QueueUrl: &url}, nil
}

func (f *fakeSQS) SendMessage(_ context.Context, params *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.sent = append(f.sent, params)
	id := "msg-1"
	return &sqs.SendMessageOutput{MessageId: &id}, nil
}

func TestSendMessage(t *testing.T) {
	client := &fakeSQS{}
	sender := NewSender(client)

	body := map[string]string{"place": "Berlin"}
	for i := 0; i < 2; i++ {
		id, err := sender.SendMessage(context.Background(), "queries", body, map[string]string{"outcome": "ok"})
		if err != nil {
			t.Fatalf("SendMessage: %v", err)
		}
		if id != "msg-1" {
			t.Fatalf("id = %q", id)
		}
	}

	if client.urlCalls != 1 {
		t.Errorf("queue URL resolved %d times, want 1", client.urlCalls)
	}

	sent := client.sent[0]
	if *sent.QueueUrl != "https://sqs.local/000000000000/queries" {
		t.Errorf("queue url = %q", *sent.QueueUrl)
	}
	var decoded map[string]string
	if err := json.Unmarshal([]byte(*sent.MessageBody), &decoded); err != nil || decoded["place"] != "Berlin" {
		t.Errorf("body = %q (%v)", *sent.MessageBody, err)
	}
	if got := *sent.MessageAttributes["outcome"].StringValue; got != "ok" {
		t.Errorf("outcome attribute = %q", got)
	}
}

func TestSendMessageQueueLookupFailure(t *testing.T) {
	sender := NewSender(&fakeSQS{urlErr: errors.New("no such queue")})
	if _, err := sender.SendMessage(context.Background(), "missing", "x", nil); err == nil {
		t.Fatal("expected error")
	}
}
