package sourcesync

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

type memStore struct {
	objects map[string]string
	broken  map[string]bool
	listErr error
}

func (m *memStore) List(_ context.Context, prefix string) ([]string, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var keys []string
	for k := range m.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *memStore) Fetch(_ context.Context, key string, w io.Writer) error {
	if m.broken[key] {
		_, _ = io.WriteString(w, "partial")
		return errors.New("connection reset")
	}
	body, ok := m.objects[key]
	if !ok {
		return os.ErrNotExist
	}
	_, err := io.WriteString(w, body)
	return err
}

func TestMirror(t *testing.T) {
	store := &memStore{
		objects: map[string]string{
			"cutoffs/2024/2024_Phase1.csv": "a,b\n1,2\n",
			"cutoffs/2024/2024_Phase2.CSV": "a,b\n3,4\n",
			"cutoffs/2024/README.md":       "notes",
			"cutoffs/2024/":                "",
			"cutoffs/2023/2023_Phase1.csv": "x",
			"other/2022_Phase1.csv":        "ignored",
		},
		broken: map[string]bool{"cutoffs/2023/2023_Phase1.csv": true},
	}
	dir := filepath.Join(t.TempDir(), "data")

	res, err := Mirror(context.Background(), store, "cutoffs/", dir, nil)
	if err != nil {
		t.Fatalf("Mirror: %v", err)
	}

	sort.Strings(res.Downloaded)
	if len(res.Downloaded) != 2 || res.Downloaded[0] != "2024_Phase1.csv" || res.Downloaded[1] != "2024_Phase2.CSV" {
		t.Errorf("Downloaded = %v", res.Downloaded)
	}
	if _, ok := res.Failed["cutoffs/2023/2023_Phase1.csv"]; !ok || len(res.Failed) != 1 {
		t.Errorf("Failed = %v", res.Failed)
	}

	got, err := os.ReadFile(filepath.Join(dir, "2024_Phase1.csv"))
	if err != nil || string(got) != "a,b\n1,2\n" {
		t.Errorf("mirrored file = %q, %v", got, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".fetch-") || e.Name() == "2023_Phase1.csv" || e.Name() == "README.md" {
			t.Errorf("unexpected file left in source dir: %s", e.Name())
		}
	}
}

func TestMirrorDuplicateBaseName(t *testing.T) {
	store := &memStore{
		objects: map[string]string{
			"cutoffs/a/2024_Phase1.csv": "first",
			"cutoffs/b/2024_Phase1.csv": "second",
		},
	}
	dir := t.TempDir()

	res, err := Mirror(context.Background(), store, "cutoffs/", dir, nil)
	if err != nil {
		t.Fatalf("Mirror: %v", err)
	}
	if len(res.Downloaded) != 1 {
		t.Errorf("Downloaded = %v; want one file", res.Downloaded)
	}
	if err := res.Failed["cutoffs/b/2024_Phase1.csv"]; !errors.Is(err, ErrDuplicateName) {
		t.Errorf("Failed[b] = %v; want ErrDuplicateName", err)
	}

	got, err := os.ReadFile(filepath.Join(dir, "2024_Phase1.csv"))
	if err != nil || string(got) != "first" {
		t.Errorf("mirrored file = %q, %v; want the first key's body", got, err)
	}
}

func TestMirrorListError(t *testing.T) {
	store := &memStore{listErr: errors.New("access denied")}
	if _, err := Mirror(context.Background(), store, "", t.TempDir(), nil); err == nil {
		t.Fatal("list error swallowed")
	}
}
