package attachment

import (
	"context"
	"fmt"
	"io"
	"strings"

	"golang.org/x/sync/errgroup"

	"keepsakes/apperror"
	"keepsakes/config/logger"
	"keepsakes/metrics"
)

const defaultDeleteConcurrency = 4

var uploadMimeTypes = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}

// UploadFile is one file of a multipart attachment upload.
type UploadFile struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

type ManagerConfig struct {
	Folder            string
	AllowDocuments    bool
	MaxSizeBytes      int64
	DeleteConcurrency int
}

// Manager owns the remote side of attachment URLs. Deletions are best
// effort: failures are logged on the storage channel and never returned.
type Manager struct {
	store  ObjectStore
	log    *logger.AppLogger
	config ManagerConfig
}

func NewManager(store ObjectStore, log *logger.AppLogger, config ManagerConfig) *Manager {
	if config.DeleteConcurrency <= 0 {
		config.DeleteConcurrency = defaultDeleteConcurrency
	}
	if config.MaxSizeBytes <= 0 {
		config.MaxSizeBytes = 5 * 1024 * 1024
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Manager{store: store, log: log, config: config}
}

// Policy is the URL policy for message attachments.
func (m *Manager) Policy() Policy {
	return Policy{AllowDocuments: m.config.AllowDocuments}
}

// DeleteRemoteObject removes the object behind rawURL. URLs that do not carry
// a storage key are skipped.
func (m *Manager) DeleteRemoteObject(ctx context.Context, rawURL string) {
	key, ok := ExtractStorageKey(rawURL)
	if !ok {
		metrics.AttachmentCleanup.WithLabelValues("skipped").Inc()
		m.log.Storage.Warning.Warn().Str("url", rawURL).Msg("attachment url has no storage key, skipping delete")
		return
	}
	resourceType := ResourceTypeHint(rawURL)
	if err := m.store.Delete(ctx, key, resourceType); err != nil {
		metrics.AttachmentCleanup.WithLabelValues("failed").Inc()
		m.log.Storage.Error.Error().
			Err(err).
			Str("key", key).
			Str("resourceType", string(resourceType)).
			Msg("failed to delete remote attachment")
		return
	}
	metrics.AttachmentCleanup.WithLabelValues("deleted").Inc()
	m.log.Storage.Info.Info().Str("key", key).Msg("remote attachment deleted")
}

// DeleteAll fans the deletions out and waits for all of them. One failing
// deletion does not stop the others.
func (m *Manager) DeleteAll(ctx context.Context, urls []string) {
	if len(urls) == 0 {
		return
	}
	var group errgroup.Group
	group.SetLimit(m.config.DeleteConcurrency)
	for _, u := range urls {
		u := u
		group.Go(func() error {
			m.DeleteRemoteObject(ctx, u)
			return nil
		})
	}
	_ = group.Wait()
}

// Upload validates and stores the files, returning their URLs in input order.
// Any failure aborts the whole upload.
func (m *Manager) Upload(ctx context.Context, files []UploadFile) ([]string, error) {
	if len(files) == 0 {
		return nil, apperror.Validation("no files uploaded")
	}
	if len(files) > MaxAttachments {
		return nil, apperror.Validation(fmt.Sprintf("you can only upload up to %d files at a time", MaxAttachments))
	}
	var oversized, unsupported []string
	for _, f := range files {
		if f.Size > m.config.MaxSizeBytes {
			oversized = append(oversized, f.Filename)
		}
		if !m.allowsMime(f.ContentType) {
			unsupported = append(unsupported, f.ContentType)
		}
	}
	if len(oversized) > 0 {
		return nil, apperror.Validation(fmt.Sprintf("files exceed the %dMB limit: %s",
			m.config.MaxSizeBytes/(1024*1024), strings.Join(oversized, ", ")))
	}
	if len(unsupported) > 0 {
		return nil, apperror.Validation("unsupported file types: " + strings.Join(unsupported, ", "))
	}

	urls := make([]string, len(files))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, f := range files {
		i, f := i, f
		group.Go(func() error {
			u, err := m.store.Upload(groupCtx, f.Content, f.Filename, m.config.Folder)
			if err != nil {
				return fmt.Errorf("upload %s: %w", f.Filename, err)
			}
			urls[i] = u
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		metrics.AttachmentUploads.WithLabelValues("failed").Inc()
		m.log.Storage.Error.Error().Err(err).Int("files", len(files)).Msg("attachment upload failed")
		// Objects that did upload are orphaned now; remove them.
		var uploaded []string
		for _, u := range urls {
			if u != "" {
				uploaded = append(uploaded, u)
			}
		}
		m.DeleteAll(context.WithoutCancel(ctx), uploaded)
		return nil, apperror.RemoteStore("upload failed", err)
	}
	metrics.AttachmentUploads.WithLabelValues("ok").Add(float64(len(urls)))
	return urls, nil
}

// UploadTo stores one file in the given folder without the attachment limits;
// used for profile images.
func (m *Manager) UploadTo(ctx context.Context, content io.Reader, filename, folder string) (string, error) {
	u, err := m.store.Upload(ctx, content, filename, folder)
	if err != nil {
		m.log.Storage.Error.Error().Err(err).Str("folder", folder).Msg("upload failed")
		return "", apperror.RemoteStore("upload failed", err)
	}
	return u, nil
}

func (m *Manager) allowsMime(contentType string) bool {
	mediaType := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	if contains(uploadMimeTypes, mediaType) {
		return true
	}
	return m.config.AllowDocuments && mediaType == "application/pdf"
}
