package uploads

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"tripsplit/internal/apperr"
	"tripsplit/pkg/domain"
	"tripsplit/pkg/queue"
	"tripsplit/pkg/storage"
	"tripsplit/pkg/store"
)

type fakeEnqueuer struct {
	uploadIDs []string
	err       error
}

func (f *fakeEnqueuer) Enqueue(_ context.Context, uploadID string) (queue.JobStatus, error) {
	if f.err != nil {
		return queue.JobStatus{}, f.err
	}
	f.uploadIDs = append(f.uploadIDs, uploadID)
	return queue.JobStatus{ID: "job-1", UploadID: uploadID, Status: queue.StatusQueued}, nil
}

func newTestService(t *testing.T) (*Service, *store.MemoryStore, *storage.MemoryObjectStore, *fakeEnqueuer) {
	t.Helper()
	st := store.NewMemoryStore()
	if err := st.SaveGroup(domain.Group{ID: "g1", Name: "Trip", Type: domain.GroupTrip}); err != nil {
		t.Fatal(err)
	}
	annID, bobID := "u-ann", "u-bob"
	if err := st.SaveMember(domain.Member{ID: "m-ann", GroupID: "g1", UserID: &annID, DisplayName: "Ann"}); err != nil {
		t.Fatal(err)
	}
	if err := st.SaveMember(domain.Member{ID: "m-bob", GroupID: "g1", UserID: &bobID, DisplayName: "Bob"}); err != nil {
		t.Fatal(err)
	}
	objects := storage.NewMemoryObjectStore()
	jobs := &fakeEnqueuer{}
	return NewService(st, objects, jobs, nil), st, objects, jobs
}

func pdfFile(content string) File {
	return File{
		Name:        "Dinner Receipt.pdf",
		ContentType: "application/pdf",
		Size:        int64(len(content)),
		Content:     strings.NewReader(content),
	}
}

func TestUploadCreatesDraftExpenseAndQueuesJob(t *testing.T) {
	svc, st, objects, jobs := newTestService(t)

	result, err := svc.Upload(context.Background(), "u-ann", "g1", pdfFile("%PDF receipt"))
	if err != nil {
		t.Fatal(err)
	}
	if result.Upload.ProcessingStatus != domain.UploadPending {
		t.Fatalf("status = %s", result.Upload.ProcessingStatus)
	}
	if !strings.HasPrefix(result.Upload.StorageKey, "expenses/g1/"+result.ExpenseID+"/") {
		t.Fatalf("storage key = %q", result.Upload.StorageKey)
	}
	if !strings.HasSuffix(result.Upload.StorageKey, "-Dinner-Receipt.pdf") {
		t.Fatalf("storage key must end with the sanitized name: %q", result.Upload.StorageKey)
	}
	if !objects.Has(result.Upload.StorageKey) {
		t.Fatal("object not stored")
	}

	exp, found, err := st.GetExpense(result.ExpenseID)
	if err != nil || !found {
		t.Fatalf("draft expense missing: %v", err)
	}
	if exp.Status != domain.ExpenseDraft || exp.Amount != "0" || exp.SplitType != domain.SplitEven {
		t.Fatalf("draft expense = %+v", exp)
	}
	if len(exp.Participants) != 2 {
		t.Fatalf("draft must include the whole group, got %v", exp.Participants)
	}
	if exp.PayerMemberID == nil || *exp.PayerMemberID != "m-ann" {
		t.Fatalf("payer = %v", exp.PayerMemberID)
	}

	if len(jobs.uploadIDs) != 1 || jobs.uploadIDs[0] != result.Upload.ID {
		t.Fatalf("queued jobs = %v", jobs.uploadIDs)
	}
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	_, err := svc.Upload(context.Background(), "u-ann", "g1", File{
		Name: "virus.exe", ContentType: "application/octet-stream",
		Content: strings.NewReader("MZ"),
	})
	if got := apperr.HTTPStatus(err); got != http.StatusUnsupportedMediaType {
		t.Fatalf("status = %d, want 415 (%v)", got, err)
	}
}

func TestUploadNonMember(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	_, err := svc.Upload(context.Background(), "u-stranger", "g1", pdfFile("x"))
	if got := apperr.HTTPStatus(err); got != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 (%v)", got, err)
	}
}

func TestUploadSurvivesEnqueueFailure(t *testing.T) {
	svc, _, _, jobs := newTestService(t)
	jobs.err = context.DeadlineExceeded

	result, err := svc.Upload(context.Background(), "u-ann", "g1", pdfFile("x"))
	if err != nil {
		t.Fatalf("upload must succeed even when the queue is down: %v", err)
	}
	if result.Upload.ProcessingStatus != domain.UploadPending {
		t.Fatalf("status = %s", result.Upload.ProcessingStatus)
	}
}

func TestSignedURLAndDelete(t *testing.T) {
	svc, st, objects, _ := newTestService(t)
	result, err := svc.Upload(context.Background(), "u-ann", "g1", pdfFile("%PDF"))
	if err != nil {
		t.Fatal(err)
	}

	url, expiresIn, err := svc.SignedURL(context.Background(), "u-bob", result.Upload.ID)
	if err != nil || url == "" || expiresIn != 300 {
		t.Fatalf("signed url = %q %d %v", url, expiresIn, err)
	}

	if _, _, err := svc.SignedURL(context.Background(), "u-stranger", result.Upload.ID); apperr.HTTPStatus(err) != http.StatusNotFound {
		t.Fatalf("stranger access = %v", err)
	}

	if err := svc.Delete(context.Background(), "u-ann", result.Upload.ID); err != nil {
		t.Fatal(err)
	}
	if objects.Has(result.Upload.StorageKey) {
		t.Fatal("object must be gone")
	}
	if _, found, _ := st.GetUploadedExpense(result.Upload.ID); found {
		t.Fatal("row must be gone")
	}
}
