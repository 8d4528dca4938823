package attachment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"keepsakes/enum"
)

func TestPolicyAllows(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		message  bool
		image    bool
	}{
		{"jpg", "https://res.cloudinary.com/demo/image/upload/v1/a/img1.jpg", true, true},
		{"upper case extension", "https://cdn.example.com/photo.JPEG", true, true},
		{"webp with query", "https://cdn.example.com/x/photo.webp?w=600", true, true},
		{"gif", "https://cdn.example.com/anim.gif", true, true},
		{"pdf", "https://res.cloudinary.com/demo/raw/upload/v1/docs/receipt.pdf", true, false},
		{"executable", "https://cdn.example.com/setup.exe", false, false},
		{"no extension", "https://cdn.example.com/photo", false, false},
		{"extension only in query", "https://cdn.example.com/photo?f=a.png", false, false},
		{"relative path", "/uploads/photo.png", false, false},
		{"not a url", "::::", false, false},
		{"ftp scheme", "ftp://cdn.example.com/photo.png", false, false},
		{"empty", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.message, MessagePolicy.Allows(tt.url))
			assert.Equal(t, tt.image, ImagePolicy.Allows(tt.url))
		})
	}
}

func TestIsValidAttachmentURL(t *testing.T) {
	assert.True(t, IsValidAttachmentURL("https://cdn.example.com/a.png"))
	assert.False(t, IsValidAttachmentURL("https://cdn.example.com/a.svg"))
}

func TestPolicyFilterKeepsOrder(t *testing.T) {
	in := []string{
		"https://cdn.example.com/b.png",
		"https://cdn.example.com/evil.html",
		"https://cdn.example.com/a.jpg",
		"nonsense",
	}
	assert.Equal(t, []string{"https://cdn.example.com/b.png", "https://cdn.example.com/a.jpg"}, MessagePolicy.Filter(in))
	assert.Empty(t, MessagePolicy.Filter([]string{"nonsense", "https://cdn.example.com/x.txt"}))
}

func TestExtractStorageKey(t *testing.T) {
	tests := []struct {
		name string
		url  string
		key  string
		ok   bool
	}{
		{"folder and extension", "https://res.cloudinary.com/demo/image/upload/v1751739552/private_dm_attachments/img1.jpg", "private_dm_attachments/img1", true},
		{"nested folders", "https://res.cloudinary.com/demo/image/upload/v12/a/b/c.png", "a/b/c", true},
		{"no extension", "https://res.cloudinary.com/demo/raw/upload/v9/docs/readme", "docs/readme", true},
		{"transformation before version", "https://res.cloudinary.com/demo/image/upload/c_scale,w_600/v3/listings/house.jpg", "listings/house", true},
		{"no version segment", "https://res.cloudinary.com/demo/image/upload/listings/house.jpg", "", false},
		{"nothing after version", "https://res.cloudinary.com/demo/image/upload/v3/", "", false},
		{"malformed", "%%%", "", false},
		{"relative", "/image/upload/v3/a.jpg", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, ok := ExtractStorageKey(tt.url)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.key, key)
		})
	}
}

func TestResourceTypeHint(t *testing.T) {
	assert.Equal(t, enum.ResourceImage, ResourceTypeHint("https://res.cloudinary.com/demo/image/upload/v1/a.jpg"))
	assert.Equal(t, enum.ResourceRaw, ResourceTypeHint("https://res.cloudinary.com/demo/raw/upload/v1/a.pdf"))
	assert.Equal(t, enum.ResourceVideo, ResourceTypeHint("https://res.cloudinary.com/demo/video/upload/v1/a.mp4"))
	assert.Equal(t, enum.ResourceImage, ResourceTypeHint("%%%"))
}

func TestRemoved(t *testing.T) {
	assert.Equal(t, []string{"a", "c"}, Removed([]string{"a", "b", "c"}, []string{"b", "d"}))
	assert.Nil(t, Removed([]string{"a"}, []string{"a"}))
	assert.Nil(t, Removed(nil, []string{"a"}))
	assert.Equal(t, []string{"a"}, Removed([]string{"a"}, nil))
}
