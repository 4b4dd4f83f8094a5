// Package secrets reads SecureString values from SSM Parameter Store.
package secrets

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ssm"
	"github.com/aws/aws-sdk-go/service/ssm/ssmiface"
)

// Store returns the decrypted value stored under a key path.
type Store interface {
	Get(ctx context.Context, keyPath string) (string, error)
}

// ErrEmptyParameter is returned when SSM answers without a value.
var ErrEmptyParameter = errors.New("parameter has no value")

// ParameterStore is a Store backed by SSM. It holds no per-call state and is
// safe to share across invocations.
type ParameterStore struct {
	client ssmiface.SSMAPI
}

// NewParameterStore wraps an SSM client.
func NewParameterStore(client ssmiface.SSMAPI) *ParameterStore {
	return &ParameterStore{client: client}
}

// NewParameterStoreFromSession creates the SSM client from a session.
func NewParameterStoreFromSession(sess *session.Session) *ParameterStore {
	return NewParameterStore(ssm.New(sess))
}

// Get fetches keyPath with decryption. SSM errors are returned as they are,
// so their message reaches the caller unchanged.
func (p *ParameterStore) Get(ctx context.Context, keyPath string) (string, error) {
	input := &ssm.GetParameterInput{
		Name:           aws.String(keyPath),
		WithDecryption: aws.Bool(true),
	}
	out, err := p.client.GetParameterWithContext(ctx, input)
	if err != nil {
		return "", err
	}
	if out == nil || out.Parameter == nil || out.Parameter.Value == nil {
		return "", fmt.Errorf("%s: %w", keyPath, ErrEmptyParameter)
	}
	return aws.StringValue(out.Parameter.Value), nil
}
