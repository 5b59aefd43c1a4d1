package services

import (
	"context"
	"errors"
	"testing"
)

type stubReports struct {
	csvPath  string
	csvErr   error
	htmlPath string
	htmlErr  error
}

func (s *stubReports) WriteCSV(ctx context.Context) (string, error)  { return s.csvPath, s.csvErr }
func (s *stubReports) WriteHTML(ctx context.Context) (string, error) { return s.htmlPath, s.htmlErr }

type stubUploader struct {
	uploads []string
	err     error
}

func (s *stubUploader) UploadFile(ctx context.Context, localPath, folder, contentType string) error {
	if s.err != nil {
		return s.err
	}
	s.uploads = append(s.uploads, folder+"/"+localPath)
	return nil
}

func TestBackupService_Run(t *testing.T) {
	reports := &stubReports{csvPath: "/tmp/x/attendance-csv.csv", htmlPath: "/tmp/x/attendance-html.html"}
	uploader := &stubUploader{}
	svc := NewBackupService(reports, uploader)

	if err := svc.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(uploader.uploads) != 2 {
		t.Fatalf("expected 2 uploads, got %d", len(uploader.uploads))
	}
}

func TestBackupService_Run_NoUploader(t *testing.T) {
	reports := &stubReports{csvPath: "a.csv", htmlPath: "a.html"}
	svc := NewBackupService(reports, nil)

	if err := svc.Run(context.Background()); err != nil {
		t.Fatalf("Run without uploader must still export locally: %v", err)
	}
}

func TestBackupService_Run_PartialFailure(t *testing.T) {
	// CSV rendering fails; the HTML artifact must still be rendered and
	// uploaded, and the error surfaced.
	renderErr := errors.New("disk full")
	reports := &stubReports{csvErr: renderErr, htmlPath: "a.html"}
	uploader := &stubUploader{}
	svc := NewBackupService(reports, uploader)

	err := svc.Run(context.Background())
	if !errors.Is(err, renderErr) {
		t.Fatalf("expected render error surfaced, got %v", err)
	}
	if len(uploader.uploads) != 1 {
		t.Fatalf("expected the surviving artifact uploaded, got %d uploads", len(uploader.uploads))
	}
}

func TestBackupService_Run_UploadFailure(t *testing.T) {
	uploadErr := errors.New("bucket gone")
	reports := &stubReports{csvPath: "a.csv", htmlPath: "a.html"}
	svc := NewBackupService(reports, &stubUploader{err: uploadErr})

	if err := svc.Run(context.Background()); !errors.Is(err, uploadErr) {
		t.Fatalf("expected upload error surfaced, got %v", err)
	}
}
