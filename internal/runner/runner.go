// Package runner orchestrates the export pipeline: browser session,
// per-week extraction, accumulation, calendar export and the optional
// Google Calendar push. It also hosts the cron daemon mode.
package runner

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"sigacal/internal/config"
	"sigacal/internal/gcal"
	"sigacal/internal/ical"
	"sigacal/internal/log"
	"sigacal/internal/model"
	"sigacal/internal/portal"
	"sigacal/internal/schedule"
	"sigacal/internal/web"
)

// Diagnostic artifact filenames, matching what the CI workflow collects.
const (
	screenshotFile = "error_siga.png"
	dumpFile       = "horario_dump.html"
)

// Pipeline bundles one run's configuration and portal credentials.
type Pipeline struct {
	Cfg  *config.Config
	User string
	Pass string
}

// RunOnce executes one full export. On any failure it attempts a
// diagnostic screenshot of the live browser state before returning.
func (p *Pipeline) RunOnce(ctx context.Context) error {
	sess, err := portal.NewSession(ctx, portal.Options{Headless: p.Cfg.Headless})
	if err != nil {
		return err
	}
	defer sess.Close()

	if err := p.run(ctx, sess); err != nil {
		if serr := sess.Screenshot(screenshotFile); serr == nil {
			log.Info("diagnostic screenshot saved", "path", screenshotFile)
		}
		return err
	}
	return nil
}

func (p *Pipeline) run(ctx context.Context, sess *portal.Session) error {
	if err := sess.Login(p.User, p.Pass); err != nil {
		return err
	}
	if err := sess.OpenSchedule(); err != nil {
		return err
	}
	sess.ResetToCurrentWeek()

	acc := schedule.NewAccumulator()
	for week := 0; week < p.Cfg.Weeks; week++ {
		snapshot, err := sess.CaptureWeekHTML()
		if err != nil {
			return err
		}

		if p.Cfg.Dump && week == 0 {
			if err := sess.DumpScheduleSection(dumpFile); err != nil {
				log.Error("schedule dump failed", err)
			} else {
				log.Info("schedule dump saved", "path", dumpFile)
			}
		}

		events, err := schedule.ExtractWeek(snapshot)
		if err != nil {
			return err
		}
		log.Info("week processed", "week", week+1, "events", len(events))
		acc.Add(events)

		if week < p.Cfg.Weeks-1 {
			if err := sess.NextWeek(); err != nil {
				return err
			}
		}
	}

	events := model.AssignUIDs(acc.Events())

	data := ical.Build(events, p.Cfg.CalendarName, time.Now())
	outPath := p.Cfg.OutputPath()
	if err := ical.WriteFile(outPath, data); err != nil {
		return err
	}
	if err := ical.Verify(data, len(events)); err != nil {
		return err
	}
	log.Info("calendar exported", "path", outPath, "events", len(events))

	if p.Cfg.Push {
		if err := p.push(ctx, events); err != nil {
			return err
		}
	}

	return nil
}

func (p *Pipeline) push(ctx context.Context, events []model.CalendarEvent) error {
	store := &gcal.FileTokenStore{Path: p.Cfg.TokenFile}
	svc, err := gcal.NewService(ctx, p.Cfg.CredentialsFile, store)
	if err != nil {
		return err
	}

	syncer := gcal.NewSyncer(svc, p.Cfg.CalendarID)
	_, _, err = syncer.Push(ctx, events)
	return err
}

// RunDaemon runs the pipeline immediately, then on the configured cron
// schedule, while serving the output file over HTTP, until ctx is
// canceled. Individual failed runs are logged and the daemon keeps going.
func (p *Pipeline) RunDaemon(ctx context.Context) error {
	if err := p.RunOnce(ctx); err != nil {
		log.Error("initial export failed", err)
	}

	c := cron.New()
	if _, err := c.AddFunc(p.Cfg.Cron, func() {
		if err := p.RunOnce(ctx); err != nil {
			log.Error("scheduled export failed", err)
		}
	}); err != nil {
		return err
	}
	c.Start()
	defer c.Stop()

	srv := web.NewServer(p.Cfg.OutputPath())
	return srv.Start(ctx, p.Cfg.Listen)
}
