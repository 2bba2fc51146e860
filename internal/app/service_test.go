package service_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/okian/aube/internal/adapters/animation"
	service "github.com/okian/aube/internal/app"
	"github.com/okian/aube/internal/domain/aggregate"
	"github.com/okian/aube/internal/domain/assistant"
	"github.com/okian/aube/internal/domain/particles"
	"github.com/okian/aube/pkg/logger"
	"github.com/okian/aube/pkg/metrics"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

// snapshotSamples counts observations in the snapshot latency histogram.
func snapshotSamples() uint64 {
	families, err := metrics.GetRegistry().Gather()
	if err != nil {
		return 0
	}
	for _, mf := range families {
		if strings.HasSuffix(mf.GetName(), "snapshot_latency_milliseconds") && len(mf.GetMetric()) > 0 {
			return mf.GetMetric()[0].GetHistogram().GetSampleCount()
		}
	}
	return 0
}

var smallDims = animation.Dimensions{
	HeroWidth: 200, HeroHeight: 100,
	ImpactWidth: 200, ImpactHeight: 80,
	IconSize: 40,
}

func newService(opts ...service.Option) *service.Service {
	base := []service.Option{
		service.WithDimensions(smallDims),
		service.WithSeed(11),
		service.WithFrameRate(120),
	}
	return service.New(append(base, opts...)...)
}

type echoModel struct{}

func (echoModel) Generate(_ context.Context, _ []assistant.Message, prompt string) (string, error) {
	return "écho: " + prompt, nil
}

func TestService_NotStarted(t *testing.T) {
	Convey("Given a service that was never started", t, func() {
		svc := newService()
		ctx := context.Background()

		Convey("Then reads should report it", func() {
			_, err := svc.Dashboard(ctx, 3)
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			_, err = svc.Scenes(ctx)
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			So(svc.GetStats()["started"], ShouldEqual, false)
		})

		Convey("Then Stop should be a no-op", func() {
			So(svc.Stop(ctx), ShouldBeNil)
		})
	})
}

func TestService_Dashboard(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		svc := newService(service.WithMaxTopN(5))
		So(svc.Start(ctx), ShouldBeNil)
		defer func() { _ = svc.Stop(ctx) }()

		Convey("When the dashboard is requested", func() {
			d, err := svc.Dashboard(ctx, 0)

			Convey("Then the overview should match the dataset", func() {
				So(err, ShouldBeNil)
				So(d.Total, ShouldEqual, 15)
				So(d.CriticalCount, ShouldEqual, 6)
				So(d.AverageConfidence, ShouldEqual, 85.2)
				So(d.Top, ShouldHaveLength, 3)
				So(d.Top[0].ID, ShouldEqual, "1")
				So(d.Zones, ShouldHaveLength, 4)
				So(d.Indicators.ZonesTracked, ShouldEqual, 24)
				So(d.Sources, ShouldHaveLength, 3)
				So(d.Departments, ShouldHaveLength, 5)
			})
		})

		Convey("When more top records are asked than allowed", func() {
			d, err := svc.Dashboard(ctx, 50)

			Convey("Then the list should be capped", func() {
				So(err, ShouldBeNil)
				So(d.Top, ShouldHaveLength, 5)
			})
		})

		Convey("When the table is searched", func() {
			rows, err := svc.Predictions(ctx, aggregate.Query{Term: "caen", Sort: aggregate.DefaultSort()})

			Convey("Then only matching rows should come back", func() {
				So(err, ShouldBeNil)
				So(rows, ShouldHaveLength, 2)
				So(rows[0].ID, ShouldEqual, "1")
				So(rows[1].ID, ShouldEqual, "6")
			})
		})

		Convey("When the model report is requested", func() {
			m, err := svc.Models(ctx)

			Convey("Then metrics and radar axes should be present", func() {
				So(err, ShouldBeNil)
				So(m.Metrics, ShouldHaveLength, 3)
				So(m.Radar, ShouldHaveLength, 5)
			})
		})

		Convey("When zones are requested", func() {
			z, err := svc.Zones(ctx)
			So(err, ShouldBeNil)
			So(z[0].Zone, ShouldEqual, "Caen")
		})

		Convey("When the service is stopped", func() {
			So(svc.Stop(ctx), ShouldBeNil)

			Convey("Then reads should fail again", func() {
				_, err := svc.Zones(ctx)
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			})
		})
	})
}

func TestService_Assistant(t *testing.T) {
	Convey("Given an offline service", t, func() {
		ctx := context.Background()
		svc := newService()
		So(svc.Start(ctx), ShouldBeNil)
		defer func() { _ = svc.Stop(ctx) }()

		Convey("Then the canned reply should be used", func() {
			g, err := svc.Greeting(ctx)
			So(err, ShouldBeNil)
			So(g.Text, ShouldEqual, assistant.Greeting)
			r, err := svc.Ask(ctx, assistant.Request{Message: "SARIMA ?"})
			So(err, ShouldBeNil)
			So(r.Text, ShouldEqual, assistant.OfflineReply)
			So(svc.GetStats()["assistant"], ShouldEqual, "offline")
		})
	})

	Convey("Given an online service", t, func() {
		ctx := context.Background()
		svc := newService(service.WithChatModel(echoModel{}), service.WithDedupeSize(4))
		So(svc.Start(ctx), ShouldBeNil)
		defer func() { _ = svc.Stop(ctx) }()

		Convey("Then replies should come from the model and duplicates be acknowledged", func() {
			r, err := svc.Ask(ctx, assistant.Request{Message: "LSTM ?", MessageID: "a"})
			So(err, ShouldBeNil)
			So(r.Text, ShouldEqual, "écho: LSTM ?")
			dup, err := svc.Ask(ctx, assistant.Request{Message: "LSTM ?", MessageID: "a"})
			So(err, ShouldBeNil)
			So(dup.Duplicate, ShouldBeTrue)
		})
	})
}

func TestService_Scenes(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		svc := newService()
		So(svc.Start(ctx), ShouldBeNil)
		defer func() { _ = svc.Stop(ctx) }()

		Convey("Then every landing page scene should be listed", func() {
			states, err := svc.Scenes(ctx)
			So(err, ShouldBeNil)
			So(states, ShouldHaveLength, 5)
			So(states[0].Name, ShouldEqual, animation.SceneHero)
		})

		Convey("When a frame is requested", func() {
			img, err := svc.Frame(ctx, animation.SceneHero)
			png, pngErr := svc.FramePNG(ctx, animation.SceneClock)

			Convey("Then it should have the scene size", func() {
				So(err, ShouldBeNil)
				So(img.Bounds().Dx(), ShouldEqual, 200)
				So(img.Bounds().Dy(), ShouldEqual, 100)
				So(pngErr, ShouldBeNil)
				So(bytes.HasPrefix(png, []byte("\x89PNG")), ShouldBeTrue)
			})
		})

		Convey("When a single frame is taken", func() {
			before := snapshotSamples()
			_, err := svc.Frame(ctx, animation.SceneHero)

			Convey("Then its latency should be recorded once", func() {
				So(err, ShouldBeNil)
				So(snapshotSamples(), ShouldEqual, before+1)
			})
		})

		Convey("When inputs target an unknown scene", func() {
			_, err := svc.Pointer(ctx, "footer", 1, 1)
			So(errors.Is(err, service.ErrUnknownScene), ShouldBeTrue)
		})

		Convey("When a resize is negative", func() {
			_, err := svc.Resize(ctx, animation.SceneHero, -1, 10)
			So(errors.Is(err, service.ErrInvalidInput), ShouldBeTrue)
		})

		Convey("When the hero is resized to nothing", func() {
			ok, err := svc.Resize(ctx, animation.SceneHero, 0, 0)
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)

			Convey("Then its frame should still encode as a still image", func() {
				empty := false
				for i := 0; i < 200 && !empty; i++ {
					img, frameErr := svc.Frame(ctx, animation.SceneHero)
					So(frameErr, ShouldBeNil)
					empty = img.Bounds().Empty()
					time.Sleep(5 * time.Millisecond)
				}
				So(empty, ShouldBeTrue)
				data, pngErr := svc.FramePNG(ctx, animation.SceneHero)
				So(pngErr, ShouldBeNil)
				So(bytes.HasPrefix(data, []byte("\x89PNG")), ShouldBeTrue)
			})
		})

		Convey("When the hero receives pointer moves", func() {
			ok, err := svc.Pointer(ctx, animation.SceneHero, 50, 50)
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
		})

		Convey("When an icon scrolls into view", func() {
			visible, err := svc.Viewport(ctx, animation.SceneGlobe,
				particles.Rect{Top: 100, Left: 10, Width: 40, Height: 40},
				particles.Rect{Width: 800, Height: 600})

			Convey("Then its scene should activate", func() {
				So(err, ShouldBeNil)
				So(visible, ShouldBeTrue)
				active := false
				for i := 0; i < 200 && !active; i++ {
					states, _ := svc.Scenes(ctx)
					for _, st := range states {
						if st.Name == animation.SceneGlobe {
							active = st.Active
						}
					}
					time.Sleep(5 * time.Millisecond)
				}
				So(active, ShouldBeTrue)
			})
		})

		Convey("When stats are requested", func() {
			stats := svc.GetStats()

			Convey("Then they should describe the running service", func() {
				So(stats["started"], ShouldEqual, true)
				So(stats["records"], ShouldEqual, 15)
				So(stats["critical"], ShouldEqual, 6)
				So(stats["scenes"], ShouldHaveLength, 5)
			})
		})
	})
}
