package question

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "record_id,subject,question,answerchoice_a,answerchoice_b,answerchoice_c,answerchoice_d,answerchoice_e,correct_answer,answer_explanation,anchor\n"

func writeCSV(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestParseLetter(t *testing.T) {
	tests := []struct {
		in      string
		want    Letter
		wantErr bool
	}{
		{"a", "a", false},
		{" C ", "c", false},
		{"E", "e", false},
		{"f", "", true},
		{"", "", true},
		{"ab", "", true},
	}
	for _, tt := range tests {
		got, err := ParseLetter(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseLetter(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseLetter(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestRecordValidate(t *testing.T) {
	r := Record{ID: "1", Choices: map[Letter]string{"a": "x", "c": "y"}, Correct: "c"}
	assert.NoError(t, r.Validate())

	r.Correct = "b"
	assert.Error(t, r.Validate(), "correct letter without choice text")

	r = Record{ID: "2", Correct: "a"}
	assert.Error(t, r.Validate(), "no choices")
}

func TestOrderedChoicesSkipsAbsent(t *testing.T) {
	r := Record{ID: "1", Choices: map[Letter]string{"e": "five", "a": "one", "c": "three"}, Correct: "a"}
	got := r.OrderedChoices()
	require.Len(t, got, 3)
	assert.Equal(t, Letter("a"), got[0].Letter)
	assert.Equal(t, Letter("c"), got[1].Letter)
	assert.Equal(t, Letter("e"), got[2].Letter)
	assert.Equal(t, "one", r.CorrectText())
}

func TestLoader_LoadsAndConcatenates(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "a.csv", header+
		`q1,Cardio,What?,A1,B1,,,,b,because,anchor text`+"\n"+
		`q2,Renal,Why?,A2,B2,C2,D2,E2,E,since,`+"\n")
	writeCSV(t, dir, "b.csv", header+
		`q3,Cardio,How?,A3,B3,C3,,,a,so,nan`+"\n")

	pool, err := Loader{Pattern: filepath.Join(dir, "*.csv")}.Load()
	require.NoError(t, err)
	assert.Equal(t, 3, pool.Len())
	assert.Equal(t, []string{"q1", "q2", "q3"}, pool.IDs())

	q1, ok := pool.Get("q1")
	require.True(t, ok)
	assert.Len(t, q1.Choices, 2)
	assert.Equal(t, Letter("b"), q1.Correct)
	assert.Equal(t, "anchor text", q1.Anchor)

	q2, _ := pool.Get("q2")
	assert.Equal(t, Letter("e"), q2.Correct, "correct letter is case-insensitive")

	q3, _ := pool.Get("q3")
	assert.Empty(t, q3.Anchor, "placeholder anchor degrades to absent")

	assert.Equal(t, []string{"q1", "q3"}, pool.BySubject("cardio"))
	assert.Equal(t, []string{"Cardio", "Renal"}, pool.Subjects())
}

func TestLoader_AssignsSequentialIDs(t *testing.T) {
	dir := t.TempDir()
	noID := "subject,question,answerchoice_a,answerchoice_b,correct_answer,answer_explanation\n"
	writeCSV(t, dir, "a.csv", noID+"S,Q1,x,y,a,e\nS,Q2,x,y,b,e\n")
	writeCSV(t, dir, "b.csv", noID+"S,Q3,x,y,a,e\n")

	pool, err := Loader{Pattern: filepath.Join(dir, "*.csv")}.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, pool.IDs())
}

func TestLoader_NoSource(t *testing.T) {
	_, err := Loader{Pattern: filepath.Join(t.TempDir(), "*.csv")}.Load()
	assert.True(t, errors.Is(err, ErrNoSource))
}

func TestLoader_IntegrityErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"correct letter without choice", header + "q1,S,Q,A,B,,,,d,e,\n", "no choice text"},
		{"invalid letter", header + "q1,S,Q,A,B,,,,z,e,\n", "invalid choice letter"},
		{"missing column", "record_id,subject,question\nq1,S,Q\n", "missing column"},
		{"duplicate id", header + "q1,S,Q,A,B,,,,a,e,\nq1,S,Q,A,B,,,,a,e,\n", "duplicate question id"},
		{"empty file", "", "empty source"},
		{"blank id with id column", header + "q1,S,Q,A,B,,,,a,e,\n,S,Q,A,B,,,,a,e,\n", "blank id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeCSV(t, dir, "bad.csv", tt.body)
			_, err := Loader{Pattern: filepath.Join(dir, "*.csv")}.Load()
			require.Error(t, err)
			var die *DataIntegrityError
			require.True(t, errors.As(err, &die), "want DataIntegrityError, got %T", err)
			assert.True(t, strings.Contains(err.Error(), tt.want), "error %q should mention %q", err, tt.want)
		})
	}
}

func TestImagePath(t *testing.T) {
	dir := t.TempDir()
	assert.Empty(t, ImagePath(dir, "q1"))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "q1.png"), []byte("png"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "q1.gif"), []byte("gif"), 0o644))
	assert.Equal(t, filepath.Join(dir, "q1.png"), ImagePath(dir, "q1"), "png probed before gif")
}

func TestLoader_ResolvesImages(t *testing.T) {
	dir := t.TempDir()
	imgDir := filepath.Join(dir, "images")
	require.NoError(t, os.MkdirAll(imgDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(imgDir, "q1.jpeg"), []byte("jpeg"), 0o644))
	writeCSV(t, dir, "a.csv", header+"q1,S,Q,A,B,,,,a,e,\nq2,S,Q,A,B,,,,a,e,\n")

	pool, err := Loader{Pattern: filepath.Join(dir, "*.csv"), ImageDir: imgDir}.Load()
	require.NoError(t, err)
	q1, _ := pool.Get("q1")
	q2, _ := pool.Get("q2")
	assert.Equal(t, filepath.Join(imgDir, "q1.jpeg"), q1.ImagePath)
	assert.Empty(t, q2.ImagePath)
}

func TestPoolFilter(t *testing.T) {
	pool, err := NewPool([]Record{
		{ID: "1", Subject: "Respiratory", Choices: map[Letter]string{"a": "x"}, Correct: "a"},
		{ID: "2", Subject: "Renal", Choices: map[Letter]string{"a": "x"}, Correct: "a"},
	})
	require.NoError(t, err)

	sub := pool.Filter("respiratory")
	assert.Equal(t, 1, sub.Len())
	assert.True(t, sub.Has("1"))
	assert.False(t, sub.Has("2"))
	assert.Equal(t, 0, pool.Filter("School-Based").Len())
}
