package imagestore

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngBytes starts with the PNG signature, enough for content sniffing.
var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)

func TestSniff(t *testing.T) {
	m, err := Sniff(pngBytes)
	require.NoError(t, err)
	assert.Equal(t, "image/png", m.String())

	_, err = Sniff([]byte("just some text"))
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = Sniff(nil)
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestLocalStore_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	ref, ct, err := s.Put(ctx, pngBytes)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(ref, ".png"), ref)
	assert.Equal(t, "image/png", ct)

	data, ct, err := s.Get(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, pngBytes, data)
	assert.Equal(t, "image/png", ct)

	require.NoError(t, s.Delete(ctx, ref))
	_, _, err = s.Get(ctx, ref)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, s.Delete(ctx, ref), "second delete is a no-op")
}

func TestLocalStore_RejectsTraversal(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	for _, ref := range []string{"", "../etc/passwd", "a/b.png", `a\b.png`, ".."} {
		_, _, err := s.Get(context.Background(), ref)
		assert.ErrorIs(t, err, ErrInvalidRef, ref)
	}
}

/* ─── S3 ─────────────────────────────────────────────────────────────── */

type fakeS3 struct {
	objects map[string][]byte
	types   map[string]string
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[*in.Key] = b
	f.types[*in.Key] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	b, ok := f.objects[*in.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(b)), ContentType: aws.String(f.types[*in.Key])}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, *in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Store_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	fake := newFakeS3()
	s := &S3Store{client: fake, bucket: "meals-bucket", prefix: "meals/"}

	ref, _, err := s.Put(ctx, pngBytes)
	require.NoError(t, err)
	require.Contains(t, fake.objects, "meals/"+ref)
	assert.Equal(t, "image/png", fake.types["meals/"+ref])

	data, ct, err := s.Get(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, pngBytes, data)
	assert.Equal(t, "image/png", ct)

	require.NoError(t, s.Delete(ctx, ref))
	_, _, err = s.Get(ctx, ref)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestS3Store_RejectsNonImages(t *testing.T) {
	fake := newFakeS3()
	s := &S3Store{client: fake, bucket: "b"}
	_, _, err := s.Put(context.Background(), []byte("%PDF-1.4 not an image"))
	assert.ErrorIs(t, err, ErrUnsupportedType)
	assert.Empty(t, fake.objects)
}
