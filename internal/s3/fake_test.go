package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// fakeAPI is an in-memory stand-in for the S3 service used by unit tests.
// It must be safe for concurrent part uploads.
type fakeAPI struct {
	mu sync.Mutex

	objects     map[string][]byte
	contentType map[string]string
	tags        map[string][]types.Tag
	uploads     map[string]*fakeUpload
	nextUpload  int

	putCalls      int
	createCalls   int
	partCalls     int
	completeCalls int
	abortCalls    int

	// failPart makes UploadPart fail for that part number; with
	// failPartOnce set the failure clears after firing once.
	failPart     int32
	failPartOnce bool
	failedOnce   bool
}

type fakeUpload struct {
	key   string
	parts map[int32][]byte
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		objects:     make(map[string][]byte),
		contentType: make(map[string]string),
		tags:        make(map[string][]types.Tag),
		uploads:     make(map[string]*fakeUpload),
	}
}

func (f *fakeAPI) ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	keys := make([]string, 0, len(f.objects))
	for key := range f.objects {
		if params.Prefix != nil && !strings.HasPrefix(key, *params.Prefix) {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := &s3.ListObjectsV2Output{}
	for _, key := range keys {
		out.Contents = append(out.Contents, types.Object{
			Key:  aws.String(key),
			Size: aws.Int64(int64(len(f.objects[key]))),
		})
	}
	return out, nil
}

func (f *fakeAPI) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, ok := f.objects[aws.ToString(params.Key)]
	if !ok {
		return nil, fmt.Errorf("fake: no such key %q", aws.ToString(params.Key))
	}
	total := int64(len(data))
	start, end := int64(0), total-1
	var contentRange *string
	if params.Range != nil {
		spec := strings.TrimPrefix(aws.ToString(params.Range), "bytes=")
		bounds := strings.SplitN(spec, "-", 2)
		start, _ = strconv.ParseInt(bounds[0], 10, 64)
		if len(bounds) == 2 && bounds[1] != "" {
			end, _ = strconv.ParseInt(bounds[1], 10, 64)
		}
		if end > total-1 {
			end = total - 1
		}
		contentRange = aws.String(fmt.Sprintf("bytes %d-%d/%d", start, end, total))
	}
	body := data[start : end+1]
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: aws.Int64(int64(len(body))),
		ContentRange:  contentRange,
	}, nil
}

func (f *fakeAPI) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.putCalls++
	f.objects[aws.ToString(params.Key)] = data
	f.contentType[aws.ToString(params.Key)] = aws.ToString(params.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeAPI) PutObjectTagging(ctx context.Context, params *s3.PutObjectTaggingInput, optFns ...func(*s3.Options)) (*s3.PutObjectTaggingOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.objects[aws.ToString(params.Key)]; !ok {
		return nil, fmt.Errorf("fake: no such key %q", aws.ToString(params.Key))
	}
	f.tags[aws.ToString(params.Key)] = params.Tagging.TagSet
	return &s3.PutObjectTaggingOutput{}, nil
}

func (f *fakeAPI) CreateMultipartUpload(ctx context.Context, params *s3.CreateMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	f.nextUpload++
	id := fmt.Sprintf("upload-%d", f.nextUpload)
	f.uploads[id] = &fakeUpload{
		key:   aws.ToString(params.Key),
		parts: make(map[int32][]byte),
	}
	f.contentType[aws.ToString(params.Key)] = aws.ToString(params.ContentType)
	return &s3.CreateMultipartUploadOutput{UploadId: aws.String(id)}, nil
}

func (f *fakeAPI) UploadPart(ctx context.Context, params *s3.UploadPartInput, optFns ...func(*s3.Options)) (*s3.UploadPartOutput, error) {
	data, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	partNumber := aws.ToInt32(params.PartNumber)
	if f.failPart == partNumber && !(f.failPartOnce && f.failedOnce) {
		f.failedOnce = true
		return nil, fmt.Errorf("fake: part %d refused", partNumber)
	}
	up, ok := f.uploads[aws.ToString(params.UploadId)]
	if !ok {
		return nil, fmt.Errorf("fake: unknown upload %q", aws.ToString(params.UploadId))
	}
	f.partCalls++
	up.parts[partNumber] = data
	return &s3.UploadPartOutput{ETag: aws.String(fmt.Sprintf("etag-%d", partNumber))}, nil
}

func (f *fakeAPI) CompleteMultipartUpload(ctx context.Context, params *s3.CompleteMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	up, ok := f.uploads[aws.ToString(params.UploadId)]
	if !ok {
		return nil, fmt.Errorf("fake: unknown upload %q", aws.ToString(params.UploadId))
	}
	f.completeCalls++
	var assembled []byte
	for _, part := range params.MultipartUpload.Parts {
		n := aws.ToInt32(part.PartNumber)
		data, ok := up.parts[n]
		if !ok {
			return nil, fmt.Errorf("fake: completing with missing part %d", n)
		}
		assembled = append(assembled, data...)
	}
	f.objects[up.key] = assembled
	delete(f.uploads, aws.ToString(params.UploadId))
	return &s3.CompleteMultipartUploadOutput{}, nil
}

func (f *fakeAPI) AbortMultipartUpload(ctx context.Context, params *s3.AbortMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.abortCalls++
	delete(f.uploads, aws.ToString(params.UploadId))
	return &s3.AbortMultipartUploadOutput{}, nil
}

func newTestClient(fake *fakeAPI) *Client {
	return &Client{client: fake, bucket: "test-bucket"}
}
