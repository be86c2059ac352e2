package report

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"tandoorimport/importer"
)

func sampleRecord() *importer.RunRecord {
	return &importer.RunRecord{
		RunID:     "run-1",
		Attempted: 5,
		Stats: importer.Stats{
			Total:        5,
			Successful:   2,
			Duplicates:   1,
			FailedScrape: 1,
			InvalidURLs:  1,
		},
		Failures: importer.Failures{
			InvalidURLs:   []string{"notaurl"},
			FailedScrapes: []importer.Failure{{URL: "https://x.com/r", Reason: "boom"}},
		},
	}
}

func TestTextFinalStats(t *testing.T) {
	out := Text(sampleRecord())

	for _, want := range []string{
		"🎉 BULK IMPORT COMPLETE!",
		"📊 Final Stats:",
		"   Total processed: 5",
		"   ✅ Successful imports: 2",
		"   ⚠️ Duplicates skipped: 1",
		"   ❌ Failed scraping: 1",
		"   ❌ Failed creation: 0",
		"   🚫 Invalid URLs: 1",
		"   📈 Success rate: 40.0%",
		"❌ FAILED URLS (2 total):",
		"🚫 Invalid URLs (1):",
		"   notaurl",
		"❌ Failed scraping (1):",
		"   https://x.com/r - boom",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestTextEnhancedLineOnlyWhenNonZero(t *testing.T) {
	rec := sampleRecord()
	if out := Text(rec); strings.Contains(out, "Duplicates enhanced") {
		t.Errorf("enhanced line shown for zero count:\n%s", out)
	}

	rec.Stats.DuplicatesEnhanced = 3
	if out := Text(rec); !strings.Contains(out, "   🎯 Duplicates enhanced with images: 3") {
		t.Errorf("enhanced line missing:\n%s", out)
	}
}

func TestTextCleanRun(t *testing.T) {
	rec := &importer.RunRecord{
		Attempted: 2,
		Stats:     importer.Stats{Total: 2, Successful: 2},
	}
	out := Text(rec)
	if !strings.Contains(out, "✅ No failed URLs!") {
		t.Errorf("clean run should report no failed URLs:\n%s", out)
	}
	if !strings.Contains(out, "   📈 Success rate: 100.0%") {
		t.Errorf("wrong success rate:\n%s", out)
	}
}

func TestTextEmptyRunAvoidsDivisionByZero(t *testing.T) {
	out := Text(&importer.RunRecord{})
	if !strings.Contains(out, "   📈 Success rate: 0.0%") {
		t.Errorf("empty run should report 0%% success:\n%s", out)
	}
}

// Name duplicates are listed with their match details but stay out of the
// failure total, so a run with only name duplicates still counts as clean.
func TestTextNameDuplicatesListedAsSkips(t *testing.T) {
	rec := &importer.RunRecord{
		Attempted: 2,
		Stats:     importer.Stats{Total: 2, Successful: 1, NameDuplicates: 1},
		Failures: importer.Failures{
			NameDuplicates: []importer.Failure{
				{URL: "https://x.com/chili", Reason: "Name duplicate: 'Chili' (ID: 9)"},
			},
		},
	}
	out := Text(rec)
	if !strings.Contains(out, "✅ No failed URLs!") {
		t.Errorf("name duplicates should not count as failures:\n%s", out)
	}
	if !strings.Contains(out, "   🔄 Name duplicates skipped: 1") {
		t.Errorf("name duplicate counter missing:\n%s", out)
	}
	if !strings.Contains(out, "🔄 Name duplicates (1):") ||
		!strings.Contains(out, "   https://x.com/chili - Name duplicate: 'Chili' (ID: 9)") {
		t.Errorf("name duplicate details missing:\n%s", out)
	}
}

func TestStyledKeepsContent(t *testing.T) {
	out := Styled(sampleRecord())
	if !strings.Contains(out, "BULK IMPORT COMPLETE!") {
		t.Errorf("styled report lost content:\n%s", out)
	}
}

type fakeStore struct {
	bucket      string
	key         string
	contentType string
	body        []byte
	err         error
}

func (f *fakeStore) Put(ctx context.Context, bucket, key string, body io.Reader, contentType string) error {
	f.bucket, f.key, f.contentType = bucket, key, contentType
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.body = b
	return f.err
}

func TestArchiveUploadsRunRecord(t *testing.T) {
	st := &fakeStore{}
	a := &Archiver{store: st, bucket: "recipes", prefix: "imports/"}

	rec := &importer.RunRecord{
		RunID: "abc-123",
		Stats: importer.Stats{Total: 1, Successful: 1},
	}
	if err := a.Archive(context.Background(), rec); err != nil {
		t.Fatalf("Archive: %v", err)
	}

	if st.bucket != "recipes" {
		t.Errorf("bucket = %q, want recipes", st.bucket)
	}
	if st.key != "imports/runs/abc-123.json" {
		t.Errorf("key = %q, want imports/runs/abc-123.json", st.key)
	}
	if st.contentType != "application/json" {
		t.Errorf("content type = %q, want application/json", st.contentType)
	}

	var got importer.RunRecord
	if err := json.Unmarshal(st.body, &got); err != nil {
		t.Fatalf("uploaded body is not valid JSON: %v", err)
	}
	if got.RunID != "abc-123" || got.Stats.Successful != 1 {
		t.Errorf("uploaded record = %+v", got)
	}
}

func TestArchiveReportsUploadFailure(t *testing.T) {
	st := &fakeStore{err: errors.New("access denied")}
	a := &Archiver{store: st, bucket: "recipes"}

	err := a.Archive(context.Background(), &importer.RunRecord{RunID: "x"})
	if err == nil || !strings.Contains(err.Error(), "upload run record") {
		t.Fatalf("expected upload error, got %v", err)
	}
}

func TestNewArchiverFromEnvUnconfigured(t *testing.T) {
	t.Setenv("S3_BUCKET", "")
	if a := NewArchiverFromEnv(context.Background()); a != nil {
		t.Fatalf("expected nil archiver without S3_BUCKET, got %+v", a)
	}
}
