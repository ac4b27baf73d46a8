// Package portal drives a headless Chromium session against the INACAP
// SIGA portal: ADFS login, opening the schedule block inside Resumen
// Académico, capturing weekly snapshots and paging between weeks. The
// schedule itself is rendered client-side, so every capture waits for the
// page to settle before reading the DOM.
package portal

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"sigacal/internal/log"
)

const (
	urlADFS = "https://adfs.inacap.cl/adfs/ls/?wtrealm=https://siga.inacap.cl/sts/&wa=wsignin1.0&" +
		"wreply=https://siga.inacap.cl/sts/&wctx=https%3a%2f%2fadfs.inacap.cl%2fadfs%2fls%2f%3fwreply%3d" +
		"https%3a%2f%2fintranet.inacap.cl%2ftportalvp%2falumnos-intranet%26wtrealm%3dhttps%3a%2f%2fintranet.inacap.cl%2f"
	urlResumen = "https://siga.inacap.cl/Inacap.Siga.ResumenAcademico/#/principal"

	// Landing URL fragment that signals a completed ADFS login.
	intranetMarker = "intranet.inacap.cl/tportalvp/alumnos-intranet"

	selUser    = "#userNameInput"
	selPass    = "#passwordInput"
	selSubmit  = "#submitButton"
	selSection = "#horario-seccion"
	selLabel   = ".card-header label.h3"
	xpathToday = `//section[@id='horario-seccion']//button[normalize-space()='Hoy']`
	xpathNext  = `//section[@id='horario-seccion']//button[i[contains(@class,'material-icons') and normalize-space(text())='chevron_right']]`
	xpathPrev  = `//section[@id='horario-seccion']//button[i[contains(@class,'material-icons') and normalize-space(text())='chevron_left']]`
)

const (
	defaultNavTimeout  = 30 * time.Second
	defaultSettleDelay = 700 * time.Millisecond
)

// NavigationError reports an expected page element or state that never
// appeared within the wait budget.
type NavigationError struct {
	What string
	Err  error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("portal: %s: %v", e.What, e.Err)
}

func (e *NavigationError) Unwrap() error { return e.Err }

// Options configures the browser session.
type Options struct {
	// Headless runs Chromium without a visible window.
	Headless bool

	// NavTimeout bounds each navigation/wait step. Zero uses the default.
	NavTimeout time.Duration

	// SettleDelay is the extra wait after navigation/paging before the
	// DOM is read, giving the Angular render a margin. Zero uses the
	// default.
	SettleDelay time.Duration
}

// Session is one serial browser session. The portal's client-side
// rendering is not safe for concurrent multi-tab use, so all operations
// run strictly in sequence on the one tab.
type Session struct {
	ctx         context.Context
	cancelAlloc context.CancelFunc
	cancelTab   context.CancelFunc
	navTimeout  time.Duration
	settleDelay time.Duration
}

// NewSession launches a Chromium instance and returns the session handle.
// Close must be called to tear the browser down.
func NewSession(parent context.Context, opts Options) (*Session, error) {
	if opts.NavTimeout <= 0 {
		opts.NavTimeout = defaultNavTimeout
	}
	if opts.SettleDelay <= 0 {
		opts.SettleDelay = defaultSettleDelay
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", opts.Headless),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.WindowSize(1280, 1000),
		)...,
	)

	tabCtx, cancelTab := chromedp.NewContext(allocCtx)

	// Start the browser now so launch failures surface here rather than
	// in the middle of the login flow.
	if err := chromedp.Run(tabCtx); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, &NavigationError{What: "launching chromium", Err: err}
	}

	return &Session{
		ctx:         tabCtx,
		cancelAlloc: cancelAlloc,
		cancelTab:   cancelTab,
		navTimeout:  opts.NavTimeout,
		settleDelay: opts.SettleDelay,
	}, nil
}

// Close tears down the tab and the browser process.
func (s *Session) Close() {
	s.cancelTab()
	s.cancelAlloc()
}

// Login submits the ADFS form and waits until the intranet landing page
// confirms the session, then parks the tab on Resumen Académico.
func (s *Session) Login(user, pass string) error {
	ctx, cancel := context.WithTimeout(s.ctx, s.navTimeout)
	defer cancel()

	err := chromedp.Run(ctx,
		chromedp.Navigate(urlADFS),
		chromedp.WaitVisible(selUser, chromedp.ByQuery),
		chromedp.SendKeys(selUser, user, chromedp.ByQuery),
		chromedp.SendKeys(selPass, pass, chromedp.ByQuery),
		chromedp.Click(selSubmit, chromedp.ByQuery),
		waitForLocation(intranetMarker),
	)
	if err != nil {
		return &NavigationError{What: "ADFS login", Err: err}
	}

	log.Info("portal login completed")
	return nil
}

// OpenSchedule navigates to the Resumen Académico page and waits for the
// schedule section and its weekly range label to render.
func (s *Session) OpenSchedule() error {
	ctx, cancel := context.WithTimeout(s.ctx, s.navTimeout)
	defer cancel()

	err := chromedp.Run(ctx,
		chromedp.Navigate(urlResumen),
		chromedp.WaitVisible(selSection, chromedp.ByQuery),
		chromedp.ScrollIntoView(selSection, chromedp.ByQuery),
		chromedp.WaitVisible(selLabel, chromedp.ByQuery),
	)
	if err != nil {
		return &NavigationError{What: "opening schedule block", Err: err}
	}

	return nil
}

// ResetToCurrentWeek clicks the "Hoy" button when present. Best effort:
// the button is absent on some terms and the current week is then already
// displayed.
func (s *Session) ResetToCurrentWeek() {
	ctx, cancel := context.WithTimeout(s.ctx, 5*time.Second)
	defer cancel()

	err := chromedp.Run(ctx,
		chromedp.Click(xpathToday, chromedp.BySearch),
		chromedp.Sleep(s.settleDelay),
	)
	if err != nil {
		log.Debug("no Hoy button, keeping displayed week", "err", err)
	}
}

// CaptureWeekHTML returns the full page markup for the currently
// displayed week, after the settle delay.
func (s *Session) CaptureWeekHTML() (string, error) {
	ctx, cancel := context.WithTimeout(s.ctx, s.navTimeout)
	defer cancel()

	var html string
	err := chromedp.Run(ctx,
		chromedp.Sleep(s.settleDelay),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", &NavigationError{What: "capturing week snapshot", Err: err}
	}
	return html, nil
}

// NextWeek pages the schedule one week forward and waits for the range
// label to re-render.
func (s *Session) NextWeek() error {
	return s.moveWeek(xpathNext, "next")
}

// PrevWeek pages the schedule one week back.
func (s *Session) PrevWeek() error {
	return s.moveWeek(xpathPrev, "prev")
}

func (s *Session) moveWeek(xpath, direction string) error {
	ctx, cancel := context.WithTimeout(s.ctx, 10*time.Second)
	defer cancel()

	err := chromedp.Run(ctx,
		chromedp.Click(xpath, chromedp.BySearch),
		chromedp.WaitVisible(selLabel, chromedp.ByQuery),
		chromedp.Sleep(s.settleDelay),
	)
	if err != nil {
		return &NavigationError{What: "paging to " + direction + " week", Err: err}
	}
	return nil
}

// DumpScheduleSection writes the schedule section's outer HTML to path
// for debugging.
func (s *Session) DumpScheduleSection(path string) error {
	ctx, cancel := context.WithTimeout(s.ctx, 10*time.Second)
	defer cancel()

	var section string
	err := chromedp.Run(ctx,
		chromedp.OuterHTML(selSection, &section, chromedp.ByQuery),
	)
	if err != nil {
		return &NavigationError{What: "dumping schedule section", Err: err}
	}
	return os.WriteFile(path, []byte(section), 0o644)
}

// Screenshot captures a full-page PNG to path. Used as a best-effort
// diagnostic when the run fails.
func (s *Session) Screenshot(path string) error {
	ctx, cancel := context.WithTimeout(s.ctx, 15*time.Second)
	defer cancel()

	var png []byte
	if err := chromedp.Run(ctx, chromedp.FullScreenshot(&png, 100)); err != nil {
		return &NavigationError{What: "capturing screenshot", Err: err}
	}
	return os.WriteFile(path, png, 0o644)
}

// waitForLocation polls the tab URL until it contains marker or the
// context expires.
func waitForLocation(marker string) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		for {
			var loc string
			if err := chromedp.Location(&loc).Do(ctx); err != nil {
				return err
			}
			if strings.Contains(loc, marker) {
				return nil
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(200 * time.Millisecond):
			}
		}
	})
}
