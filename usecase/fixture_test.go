package usecase_test

import (
	"bytes"
	"sync"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"keepsakes/attachment"
	"keepsakes/config/logger"
	"keepsakes/dto"
	"keepsakes/repository"
	"keepsakes/testutil"
	"keepsakes/usecase"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []dto.MessageEvent
}

func (p *recordingPublisher) Publish(event dto.MessageEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) Events() []dto.MessageEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]dto.MessageEvent(nil), p.events...)
}

type fixture struct {
	db            *gorm.DB
	store         *testutil.ObjectStoreStub
	storageLog    *bytes.Buffer
	publisher     *recordingPublisher
	blocks        *usecase.BlockUsecaseImpl
	conversations *usecase.ConversationUsecaseImpl
	messages      *usecase.MessageUsecaseImpl
}

func newFixture(t *testing.T, cache usecase.BlockStatusCache) *fixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	store := testutil.NewObjectStoreStub()
	storageLog := new(bytes.Buffer)
	publisher := &recordingPublisher{}

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	manager := attachment.NewManager(store, logger.NewWriterLogger(storageLog), attachment.ManagerConfig{
		Folder:         "private_dm_attachments",
		AllowDocuments: true,
	})

	userRepository := repository.NewUserRepository()
	conversationRepository := repository.NewConversationRepository()
	messageRepository := repository.NewMessageRepository()

	blocks := usecase.NewBlockUsecase(repository.NewBlockRepository(), userRepository, db, log, cache)
	conversations := usecase.NewConversationUsecase(conversationRepository, messageRepository, userRepository, db, log, blocks, manager, publisher)
	messages := usecase.NewMessageUsecase(messageRepository, conversationRepository, userRepository, validator.New(validator.WithRequiredStructEnabled()), db, log, conversations, blocks, manager, publisher)

	return &fixture{
		db:            db,
		store:         store,
		storageLog:    storageLog,
		publisher:     publisher,
		blocks:        blocks,
		conversations: conversations,
		messages:      messages,
	}
}
