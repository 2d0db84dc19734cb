package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// MaxUploadSize is the largest accepted image, 5 MiB.
const MaxUploadSize int64 = 5 * 1024 * 1024

var (
	ErrUnsupportedType = errors.New("only image files (png, jpg, jpeg, gif) are allowed")
	ErrTooLarge        = errors.New("image too large, max size is 5 MB")
)

// DefaultAllowedExtensions are compared against the lowercased extension.
var DefaultAllowedExtensions = []string{"png", "jpg", "jpeg", "gif"}

// File is a candidate upload. Content must be seekable so the size can be
// measured without buffering the whole file.
type File struct {
	Name    string
	Content io.ReadSeeker
}

type Validator struct {
	Store   FileStore
	MaxSize int64
	allowed map[string]struct{}
}

func NewValidator(store FileStore) *Validator {
	v := &Validator{Store: store, MaxSize: MaxUploadSize, allowed: map[string]struct{}{}}
	for _, ext := range DefaultAllowedExtensions {
		v.allowed[ext] = struct{}{}
	}
	return v
}

// ValidateAndStore checks the file and persists it under a generated name.
// A nil file or one without a name is not an error: the image is optional
// and the returned name is empty.
func (v *Validator) ValidateAndStore(ctx context.Context, f *File) (string, error) {
	if f == nil || f.Name == "" {
		return "", nil
	}

	clean := SanitizeFilename(f.Name)
	if clean == "" {
		return "", ErrUnsupportedType
	}
	ext, ok := Extension(clean)
	if !ok {
		return "", ErrUnsupportedType
	}
	if _, allowed := v.allowed[ext]; !allowed {
		return "", ErrUnsupportedType
	}

	size, err := measure(f.Content)
	if err != nil {
		return "", fmt.Errorf("measure upload: %w", err)
	}
	if size > v.MaxSize {
		return "", ErrTooLarge
	}

	// The original stem is discarded so names cannot collide, be guessed or traverse.
	name := GenerateName(ext)

	if err := v.Store.Save(ctx, name, f.Content, size, ContentType(name)); err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}
	return name, nil
}

// Delete removes a stored file. Empty or unknown names are a no-op.
func (v *Validator) Delete(ctx context.Context, name string) error {
	if name == "" || !ValidName(name) {
		return nil
	}
	err := v.Store.Delete(ctx, name)
	if errors.Is(err, ErrNotExist) {
		return nil
	}
	return err
}

// Extension returns the lowercased text after the last dot.
func Extension(name string) (string, bool) {
	i := strings.LastIndex(name, ".")
	if i < 0 || i == len(name)-1 {
		return "", false
	}
	return strings.ToLower(name[i+1:]), true
}

// SanitizeFilename drops any directory part and reduces the rest to a safe slug
// with the lowercased extension, e.g. "../My Photo.PNG" -> "my-photo.png".
// The extension ValidateAndStore checks is taken from this cleaned name.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}

	ext, hasExt := Extension(name)
	stem := name
	if hasExt {
		stem = name[:strings.LastIndex(name, ".")]
	}

	stem = slug.Make(stem)
	ext = slug.Make(ext)
	switch {
	case stem == "" && ext == "":
		return ""
	case ext == "":
		return stem
	case stem == "":
		stem = "upload"
	}
	return stem + "." + ext
}

// GenerateName returns a random 128-bit hex name with the given extension.
func GenerateName(ext string) string {
	id := uuid.New()
	return fmt.Sprintf("%x.%s", id[:], strings.ToLower(ext))
}

func measure(r io.Seeker) (int64, error) {
	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}
	return size, nil
}
