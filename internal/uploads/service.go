// Package uploads handles receipt file uploads and their asynchronous LLM
// parsing into expense data.
package uploads

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"tripsplit/internal/apperr"
	"tripsplit/pkg/domain"
	"tripsplit/pkg/queue"
	"tripsplit/pkg/storage"
	"tripsplit/pkg/store"
)

const signedURLExpiry = 5 * time.Minute

var allowedMimeTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"image/png":  true,
	"image/jpeg": true,
	"image/webp": true,
	"image/gif":  true,
}

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// Enqueuer submits a parse job for an upload row. Implemented by the redis
// streams queue.
type Enqueuer interface {
	Enqueue(ctx context.Context, uploadID string) (queue.JobStatus, error)
}

// Service accepts receipt files, creates the draft expense they belong to,
// and queues the parse job.
type Service struct {
	store   store.Store
	objects storage.ObjectStore
	jobs    Enqueuer
	logger  *slog.Logger
}

func NewService(st store.Store, objects storage.ObjectStore, jobs Enqueuer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: st, objects: objects, jobs: jobs, logger: logger}
}

// File is one inbound multipart upload.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Content     io.Reader
}

// Result is the upload row plus the draft expense it created.
type Result struct {
	Upload    domain.UploadedExpense `json:"upload"`
	ExpenseID string                 `json:"expenseId"`
}

// Upload stores the file, creates a zero-amount draft expense split evenly
// across the whole group, records the upload row, and queues parsing. The
// parse worker fills in the real amount later.
func (s *Service) Upload(ctx context.Context, userID, groupID string, file File) (Result, error) {
	if file.Content == nil {
		return Result{}, apperr.BadRequest("file is required")
	}
	if !allowedMimeTypes[file.ContentType] {
		return Result{}, apperr.UnsupportedMedia("unsupported file type")
	}

	membership, members, err := s.groupMembership(groupID, userID)
	if err != nil {
		return Result{}, err
	}

	now := time.Now().UTC()
	name := file.Name
	if name == "" {
		name = "Uploaded expense"
	}
	participants := make([]domain.ExpenseParticipant, 0, len(members))
	for _, m := range members {
		participants = append(participants, domain.ExpenseParticipant{MemberID: m.ID})
	}
	exp := domain.Expense{
		ID:            uuid.NewString(),
		GroupID:       groupID,
		PayerMemberID: &membership.ID,
		Name:          name,
		Description:   "Pending receipt parsing",
		Amount:        "0",
		Currency:      "USD",
		Date:          now,
		Status:        domain.ExpenseDraft,
		SplitType:     domain.SplitEven,
		Participants:  participants,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.store.SaveExpense(exp); err != nil {
		return Result{}, fmt.Errorf("save draft expense: %w", err)
	}

	key := buildStorageKey(groupID, exp.ID, file.Name, now)
	if err := s.objects.Put(ctx, key, file.Content, file.Size, file.ContentType); err != nil {
		return Result{}, fmt.Errorf("store receipt: %w", err)
	}

	upload := domain.UploadedExpense{
		ID:               uuid.NewString(),
		ExpenseID:        exp.ID,
		UploadedByID:     membership.ID,
		OriginalFileName: file.Name,
		FileType:         file.ContentType,
		StorageKey:       key,
		ProcessingStatus: domain.UploadPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.store.SaveUploadedExpense(upload); err != nil {
		return Result{}, fmt.Errorf("save upload row: %w", err)
	}

	if _, err := s.jobs.Enqueue(ctx, upload.ID); err != nil {
		// The row stays PENDING; a retry endpoint or operator can requeue.
		s.logger.Error("enqueue receipt parse failed",
			slog.String("upload_id", upload.ID), slog.Any("error", err))
	}
	return Result{Upload: upload, ExpenseID: exp.ID}, nil
}

// Get returns the upload row after checking group access through its expense.
func (s *Service) Get(ctx context.Context, userID, uploadID string) (domain.UploadedExpense, error) {
	upload, _, err := s.accessibleUpload(userID, uploadID)
	return upload, err
}

// SignedURL returns a short-lived download URL for the stored receipt.
func (s *Service) SignedURL(ctx context.Context, userID, uploadID string) (string, int, error) {
	upload, _, err := s.accessibleUpload(userID, uploadID)
	if err != nil {
		return "", 0, err
	}
	url, err := s.objects.PresignGet(ctx, upload.StorageKey, signedURLExpiry)
	if err != nil {
		return "", 0, fmt.Errorf("presign receipt url: %w", err)
	}
	return url, int(signedURLExpiry.Seconds()), nil
}

// Delete removes the stored object, then the row. Object-store failures abort
// so the row keeps pointing at an existing object.
func (s *Service) Delete(ctx context.Context, userID, uploadID string) error {
	upload, _, err := s.accessibleUpload(userID, uploadID)
	if err != nil {
		return err
	}
	if err := s.objects.Delete(ctx, upload.StorageKey); err != nil {
		s.logger.Error("delete receipt object failed",
			slog.String("upload_id", uploadID), slog.Any("error", err))
		return apperr.Upstream("unable to delete file right now", 502)
	}
	if err := s.store.DeleteUploadedExpense(uploadID); err != nil {
		return fmt.Errorf("delete upload row: %w", err)
	}
	return nil
}

func (s *Service) accessibleUpload(userID, uploadID string) (domain.UploadedExpense, domain.Expense, error) {
	upload, found, err := s.store.GetUploadedExpense(uploadID)
	if err != nil {
		return domain.UploadedExpense{}, domain.Expense{}, fmt.Errorf("load upload: %w", err)
	}
	if !found {
		return domain.UploadedExpense{}, domain.Expense{}, apperr.NotFound("upload not found")
	}
	exp, found, err := s.store.GetExpense(upload.ExpenseID)
	if err != nil {
		return domain.UploadedExpense{}, domain.Expense{}, fmt.Errorf("load expense: %w", err)
	}
	if !found {
		return domain.UploadedExpense{}, domain.Expense{}, apperr.NotFound("upload not found")
	}
	if _, _, err := s.groupMembership(exp.GroupID, userID); err != nil {
		return domain.UploadedExpense{}, domain.Expense{}, apperr.NotFound("upload not found")
	}
	return upload, exp, nil
}

func (s *Service) groupMembership(groupID, userID string) (domain.Member, []domain.Member, error) {
	members, err := s.store.ListGroupMembers(groupID)
	if err != nil {
		return domain.Member{}, nil, fmt.Errorf("load group members: %w", err)
	}
	for _, m := range members {
		if m.UserID != nil && *m.UserID == userID {
			return m, members, nil
		}
	}
	return domain.Member{}, nil, apperr.NotFound("group not found or not accessible")
}

func buildStorageKey(groupID, expenseID, originalName string, now time.Time) string {
	ext := filepath.Ext(originalName)
	base := unsafeNameChars.ReplaceAllString(strings.TrimSuffix(filepath.Base(originalName), ext), "-")
	if base == "" || base == "." {
		base = "upload"
	}
	ts := now.UTC().Format("2006-01-02T15-04-05")
	return fmt.Sprintf("expenses/%s/%s/%s-%s-%s%s", groupID, expenseID, ts, uuid.NewString(), base, ext)
}
