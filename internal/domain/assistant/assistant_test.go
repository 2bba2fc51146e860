package assistant

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/okian/aube/internal/domain/dedupe"
	"github.com/okian/aube/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		os.Exit(1)
	}
	os.Exit(m.Run())
}

type fakeModel struct {
	mu      sync.Mutex
	text    string
	err     error
	calls   int
	history []Message
	prompt  string
}

func (f *fakeModel) Generate(_ context.Context, history []Message, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.history = history
	f.prompt = prompt
	return f.text, f.err
}

func TestAssistantOffline(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	Convey("Given an assistant without a model", t, func() {
		a := New(WithClock(func() time.Time { return fixed }))

		Convey("Then it should be offline and greet in French", func() {
			So(a.Mode(), ShouldEqual, ModeOffline)
			g := a.Greeting()
			So(g.Role, ShouldEqual, RoleModel)
			So(g.Text, ShouldEqual, Greeting)
			So(g.Timestamp, ShouldEqual, fixed)
		})

		Convey("When a question is asked", func() {
			r, err := a.Ask(ctx, Request{Message: "Quelle est la méthodologie ?"})

			Convey("Then the offline reply should be returned with a fresh id", func() {
				So(err, ShouldBeNil)
				So(r.Text, ShouldEqual, OfflineReply)
				So(r.Mode, ShouldEqual, ModeOffline)
				So(r.MessageID, ShouldNotBeEmpty)
				So(r.Timestamp, ShouldEqual, fixed)
			})
		})

		Convey("When the message is blank", func() {
			_, err := a.Ask(ctx, Request{Message: "   "})
			So(errors.Is(err, ErrEmptyMessage), ShouldBeTrue)
		})

		Convey("When the history has an unknown role", func() {
			_, err := a.Ask(ctx, Request{Message: "ok", History: []Message{{Role: "system", Text: "x"}}})
			So(errors.Is(err, ErrInvalidHistory), ShouldBeTrue)
		})
	})
}

func TestAssistantOnline(t *testing.T) {
	ctx := context.Background()

	Convey("Given an assistant backed by a model", t, func() {
		model := &fakeModel{text: "Le LSTM capte mieux les ruptures."}
		a := New(WithModel(model), WithTimeout(time.Second))

		Convey("When a question with history is asked", func() {
			history := []Message{
				{Role: RoleModel, Text: Greeting},
				{Role: RoleUser, Text: "Bonjour"},
			}
			r, err := a.Ask(ctx, Request{Message: "Pourquoi un ensemble ?", History: history})

			Convey("Then the model answer should be relayed", func() {
				So(err, ShouldBeNil)
				So(a.Mode(), ShouldEqual, ModeOnline)
				So(r.Text, ShouldEqual, model.text)
				So(r.Failed, ShouldBeFalse)
				So(model.prompt, ShouldEqual, "Pourquoi un ensemble ?")
				So(model.history, ShouldHaveLength, 2)
			})
		})

		Convey("When the model returns nothing", func() {
			model.text = "  "
			r, err := a.Ask(ctx, Request{Message: "?"})

			Convey("Then the apology should be returned", func() {
				So(err, ShouldBeNil)
				So(r.Text, ShouldEqual, EmptyReply)
			})
		})

		Convey("When the model fails", func() {
			model.err = errors.New("quota exceeded")
			r, err := a.Ask(ctx, Request{Message: "?", MessageID: "m-1"})

			Convey("Then the error text should be returned and the id released", func() {
				So(err, ShouldBeNil)
				So(r.Text, ShouldEqual, ErrorReply)
				So(r.Failed, ShouldBeTrue)

				model.err = nil
				model.text = "ok"
				retry, err := a.Ask(ctx, Request{Message: "?", MessageID: "m-1"})
				So(err, ShouldBeNil)
				So(retry.Duplicate, ShouldBeFalse)
				So(retry.Text, ShouldEqual, "ok")
			})
		})
	})
}

func TestAssistantDuplicates(t *testing.T) {
	ctx := context.Background()

	Convey("Given an assistant with a small deduper", t, func() {
		model := &fakeModel{text: "réponse"}
		a := New(WithModel(model), WithDeduper(dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(8))))

		Convey("When the same message id is sent twice", func() {
			first, err1 := a.Ask(ctx, Request{Message: "?", MessageID: "m-42"})
			second, err2 := a.Ask(ctx, Request{Message: "?", MessageID: "m-42"})

			Convey("Then the model should be called once", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(first.Duplicate, ShouldBeFalse)
				So(second.Duplicate, ShouldBeTrue)
				So(second.Text, ShouldBeEmpty)
				So(second.MessageID, ShouldEqual, "m-42")
				So(model.calls, ShouldEqual, 1)
			})
		})

		Convey("When messages carry no id", func() {
			_, _ = a.Ask(ctx, Request{Message: "?"})
			_, _ = a.Ask(ctx, Request{Message: "?"})

			Convey("Then each should reach the model", func() {
				So(model.calls, ShouldEqual, 2)
			})
		})
	})
}
