package source

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockObjectGetter struct {
	mock.Mock
}

func (m *mockObjectGetter) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*s3.GetObjectOutput)
	return out, args.Error(1)
}

func TestParseInput(t *testing.T) {
	tests := []struct {
		arg      string
		expected Input
		wantErr  bool
	}{
		{arg: "equifax=reports/eq.txt", expected: Input{Bureau: "equifax", Location: "reports/eq.txt"}},
		{arg: "transunion=s3://bucket/tu.txt", expected: Input{Bureau: "transunion", Location: "s3://bucket/tu.txt"}},
		{arg: "reports/eq.txt", wantErr: true},
		{arg: "=reports/eq.txt", wantErr: true},
		{arg: "equifax=", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			input, err := ParseInput(tt.arg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, input)
		})
	}
}

func TestParseS3Location(t *testing.T) {
	bucket, key, err := ParseS3Location("s3://reports/2024/eq.txt")
	require.NoError(t, err)
	assert.Equal(t, "reports", bucket)
	assert.Equal(t, "2024/eq.txt", key)

	for _, invalid := range []string{"reports/eq.txt", "s3://reports", "s3:///eq.txt"} {
		_, _, err := ParseS3Location(invalid)
		assert.Error(t, err, invalid)
	}
}

func TestFileLoader(t *testing.T) {
	t.Run("reads file", func(t *testing.T) {
		// Given
		path := filepath.Join(t.TempDir(), "eq.txt")
		require.NoError(t, os.WriteFile(path, []byte("Account Name: Prime Bank"), 0o600))

		// When
		text, err := FileLoader{}.Load(context.Background(), path)

		// Then
		require.NoError(t, err)
		assert.Equal(t, "Account Name: Prime Bank", text)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := FileLoader{}.Load(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("too large", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "big.txt")
		require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("x", MaxDocumentBytes+1)), 0o600))

		_, err := FileLoader{}.Load(context.Background(), path)
		assert.ErrorIs(t, err, ErrDocumentTooLarge)
	})
}

func TestS3Loader(t *testing.T) {
	t.Run("gets object", func(t *testing.T) {
		// Given
		client := &mockObjectGetter{}
		client.On("GetObject", mock.Anything, &s3.GetObjectInput{
			Bucket: awssdk.String("reports"),
			Key:    awssdk.String("eq.txt"),
		}).Return(&s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader("Balance: $1,200"))}, nil)

		// When
		text, err := NewS3Loader(client).Load(context.Background(), "s3://reports/eq.txt")

		// Then
		require.NoError(t, err)
		assert.Equal(t, "Balance: $1,200", text)
		client.AssertExpectations(t)
	})

	t.Run("client error", func(t *testing.T) {
		client := &mockObjectGetter{}
		client.On("GetObject", mock.Anything, mock.Anything).Return(nil, errors.New("access denied"))

		_, err := NewS3Loader(client).Load(context.Background(), "s3://reports/eq.txt")

		assert.ErrorContains(t, err, "failed to get object s3://reports/eq.txt: access denied")
	})

	t.Run("declared length over limit", func(t *testing.T) {
		client := &mockObjectGetter{}
		client.On("GetObject", mock.Anything, mock.Anything).Return(&s3.GetObjectOutput{
			Body:          io.NopCloser(strings.NewReader("")),
			ContentLength: awssdk.Int64(MaxDocumentBytes + 1),
		}, nil)

		_, err := NewS3Loader(client).Load(context.Background(), "s3://reports/eq.txt")

		assert.ErrorIs(t, err, ErrDocumentTooLarge)
	})
}

func TestRouter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eq.txt")
	require.NoError(t, os.WriteFile(path, []byte("local"), 0o600))

	t.Run("without s3", func(t *testing.T) {
		r := NewRouter(nil)

		text, err := r.Load(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, "local", text)

		_, err = r.Load(context.Background(), "s3://reports/eq.txt")
		assert.ErrorContains(t, err, "s3 source is not configured")
	})

	t.Run("with s3", func(t *testing.T) {
		client := &mockObjectGetter{}
		client.On("GetObject", mock.Anything, mock.Anything).
			Return(&s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader("remote"))}, nil)

		text, err := NewRouter(NewS3Loader(client)).Load(context.Background(), "s3://reports/eq.txt")
		require.NoError(t, err)
		assert.Equal(t, "remote", text)
	})
}
