package integration

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Min-Trees/abc-interview-microservice/internal/models"
)

func TestQuestionClientListQuestions(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"bare array", `[{"id":1,"content":"a"},{"id":2,"content":"b"}]`, 2},
		{"wrapped", `{"questions":[{"id":1,"content":"a"}]}`, 1},
		{"paged", `{"content":[{"id":1,"content":"a"}],"totalElements":1}`, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/questions" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewQuestionClient(srv.URL, time.Second, 0, 0, zerolog.Nop())
			got, err := c.ListQuestions(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != tt.want {
				t.Errorf("got %d questions, want %d", len(got), tt.want)
			}
		})
	}
}

func TestQuestionClientMalformedList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":"nope"}`))
	}))
	defer srv.Close()

	c := NewQuestionClient(srv.URL, time.Second, 0, 0, zerolog.Nop())
	if _, err := c.ListQuestions(context.Background()); !errors.Is(err, ErrMalformedUpstreamResponse) {
		t.Errorf("expected ErrMalformedUpstreamResponse, got %v", err)
	}
}

func TestQuestionClientGetQuestionErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"not found", http.StatusNotFound, ErrNotFound},
		{"server error", http.StatusInternalServerError, ErrUpstreamUnavailable},
		{"bad gateway", http.StatusBadGateway, ErrUpstreamUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			c := NewQuestionClient(srv.URL, time.Second, 0, 0, zerolog.Nop())
			_, err := c.GetQuestion(context.Background(), 7)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestServiceClientNoRetryByDefault(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewQuestionClient(srv.URL, time.Second, 0, 0, zerolog.Nop())
	_, _ = c.GetQuestion(context.Background(), 1)
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("expected exactly one attempt, got %d", n)
	}

	c = NewQuestionClient(srv.URL, time.Second, 2, time.Millisecond, zerolog.Nop())
	atomic.StoreInt32(&calls, 0)
	_, _ = c.GetQuestion(context.Background(), 1)
	if n := atomic.LoadInt32(&calls); n != 3 {
		t.Errorf("expected 3 attempts with retry_count=2, got %d", n)
	}
}

func TestServiceClientUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewExamClient(url, 200*time.Millisecond, 0, 0, zerolog.Nop())
	if _, err := c.GetExam(context.Background(), 1); !errors.Is(err, ErrUpstreamUnavailable) {
		t.Errorf("expected ErrUpstreamUnavailable, got %v", err)
	}
}

func TestExamClientRoundTrip(t *testing.T) {
	var saved models.ExamResult
	mux := http.NewServeMux()
	mux.HandleFunc("/exams/5", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"questions":[{"id":1,"type":"OPEN_ENDED","maxScore":20},{"id":2,"type":"MULTIPLE_CHOICE"}]}`))
	})
	mux.HandleFunc("/exams/5/questions/1/answer", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"answer":"my answer"}`))
	})
	mux.HandleFunc("/exams/5/results", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&saved); err != nil {
			t.Errorf("bad body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("/questions/1/answers", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"score":80},{"score":null},{"score":40}]`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewExamClient(srv.URL, time.Second, 0, 0, zerolog.Nop())
	ctx := context.Background()

	exam, err := c.GetExam(ctx, 5)
	if err != nil {
		t.Fatal(err)
	}
	if exam.ID != 5 || len(exam.Questions) != 2 {
		t.Fatalf("unexpected exam %+v", exam)
	}
	if exam.Questions[0].MaxScore == nil || *exam.Questions[0].MaxScore != 20 {
		t.Errorf("maxScore not decoded: %+v", exam.Questions[0])
	}

	answer, err := c.GetAnswer(ctx, 5, 1)
	if err != nil || answer != "my answer" {
		t.Fatalf("GetAnswer = %q, %v", answer, err)
	}

	err = c.SubmitResult(ctx, models.ExamResult{ExamID: 5, QuestionID: 1, Score: 12, MaxScore: 20, AutoGraded: true})
	if err != nil {
		t.Fatal(err)
	}
	if saved.QuestionID != 1 || saved.Score != 12 || !saved.AutoGraded {
		t.Errorf("saved result = %+v", saved)
	}

	scores, err := c.GetAnswerScores(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(scores) != 3 || scores[1].Score != nil {
		t.Errorf("scores = %+v", scores)
	}
}
