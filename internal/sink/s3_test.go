package sink_test

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/codeleta/AutoExportElectrumPlugin/internal/sink"
	"github.com/stretchr/testify/require"
)

type stubUploader struct {
	inputs []*s3manager.UploadInput
	bodies []string
	err    error
}

func (s *stubUploader) UploadWithContext(_ aws.Context, input *s3manager.UploadInput, _ ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error) {
	body, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}

	s.inputs = append(s.inputs, input)
	s.bodies = append(s.bodies, string(body))

	if s.err != nil {
		return nil, s.err
	}

	return &s3manager.UploadOutput{}, nil
}

func TestS3Export(t *testing.T) {
	t.Parallel()

	t.Run("uploads CSV payload under timestamped key", func(t *testing.T) {
		t.Parallel()

		stub := &stubUploader{}
		s3 := sink.NewS3(sink.S3Config{
			Bucket: "wallet-exports",
			Region: "eu-west-1",
			Prefix: "history",
		}, sink.WithUploader(stub))

		require.NoError(t, s3.Export(t.Context(), testTable()))
		require.Len(t, stub.inputs, 1)

		input := stub.inputs[0]
		require.Equal(t, "wallet-exports", aws.StringValue(input.Bucket))
		require.True(t, strings.HasPrefix(aws.StringValue(input.Key), "history/"))
		require.True(t, strings.HasSuffix(aws.StringValue(input.Key), ".csv"))
		require.Equal(t, "text/csv", aws.StringValue(input.ContentType))

		require.True(t, strings.HasPrefix(stub.bodies[0], "transaction_hash,label,confirmations,value,timestamp\n"))
	})

	t.Run("no-op without a bucket", func(t *testing.T) {
		t.Parallel()

		stub := &stubUploader{}
		s3 := sink.NewS3(sink.S3Config{}, sink.WithUploader(stub))

		require.NoError(t, s3.Export(t.Context(), testTable()))
		require.Empty(t, stub.inputs)
	})

	t.Run("upload failure reported", func(t *testing.T) {
		t.Parallel()

		stub := &stubUploader{err: errors.New("access denied")}
		s3 := sink.NewS3(sink.S3Config{Bucket: "wallet-exports"}, sink.WithUploader(stub))

		err := s3.Export(t.Context(), testTable())
		require.ErrorContains(t, err, "access denied")
	})

	t.Run("name", func(t *testing.T) {
		t.Parallel()

		require.Equal(t, "s3", sink.NewS3(sink.S3Config{}).Name())
	})
}
