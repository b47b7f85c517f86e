package email

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/leaguedesk/leaguedesk/internal/testutil"
)

type fakeEmailSender struct {
	sendFromCalls int32
	started       chan struct{}
	lastRecipient atomic.Value
	lastSender    atomic.Value
}

func newFakeEmailSender() *fakeEmailSender {
	return &fakeEmailSender{started: make(chan struct{}, 4)}
}

func (f *fakeEmailSender) Send(ctx context.Context, recipient, subject, body string) error {
	return f.SendFrom(ctx, recipient, subject, body, "")
}

func (f *fakeEmailSender) SendFrom(ctx context.Context, recipient, subject, body, sender string) error {
	atomic.AddInt32(&f.sendFromCalls, 1)
	f.lastRecipient.Store(recipient)
	f.lastSender.Store(sender)
	select {
	case f.started <- struct{}{}:
	default:
	}
	return nil
}

func (f *fakeEmailSender) waitForSend(t *testing.T) {
	t.Helper()
	select {
	case <-f.started:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for async send")
	}
}

func TestSendToUserDeliversAsynchronously(t *testing.T) {
	database := testutil.NewTestDB(t)
	fx := testutil.SeedLeague(t, database)
	sender := newFakeEmailSender()

	// Cancelled parent context must not abort the detached send.
	ctx, cancel := context.WithCancel(context.Background())
	SendToUser(ctx, database.Queries, sender, fx.CoachID, Message{
		Subject: "Upcoming Game Reminder",
		Body:    "Reminder: your team has an upcoming game.",
	}, "league@metro.test", nil)
	cancel()

	sender.waitForSend(t)
	if got := sender.lastRecipient.Load(); got != "coach@metro.test" {
		t.Errorf("recipient = %v, want coach@metro.test", got)
	}
	if got := sender.lastSender.Load(); got != "league@metro.test" {
		t.Errorf("sender override = %v, want league@metro.test", got)
	}
}

func TestSendToUserSkipsMissingUser(t *testing.T) {
	database := testutil.NewTestDB(t)
	testutil.SeedLeague(t, database)
	sender := newFakeEmailSender()

	SendToUser(context.Background(), database.Queries, sender, 9999, Message{
		Subject: "s", Body: "b",
	}, "", nil)

	time.Sleep(50 * time.Millisecond)
	if calls := atomic.LoadInt32(&sender.sendFromCalls); calls != 0 {
		t.Errorf("send calls = %d, want 0 for missing user", calls)
	}
}

func TestSendToAddressRequiresContent(t *testing.T) {
	sender := newFakeEmailSender()

	SendToAddress(context.Background(), sender, "admin@metro.test", Message{}, "", nil)
	SendToAddress(context.Background(), sender, "", Message{Subject: "s", Body: "b"}, "", nil)

	time.Sleep(50 * time.Millisecond)
	if calls := atomic.LoadInt32(&sender.sendFromCalls); calls != 0 {
		t.Errorf("send calls = %d, want 0 for empty content", calls)
	}
}

func TestBuildChangeRequestEmail(t *testing.T) {
	message := BuildChangeRequestEmail(ChangeRequestDetails{
		Game: GameDetails{
			LeagueName: "Metro Soccer League",
			HomeTeam:   "Rapids",
			AwayTeam:   "Thunder",
			Date:       "2026-09-12",
			Time:       "10:00",
			Location:   "Field 1",
		},
		RequestedDate:     "2026-09-19",
		RequestedTime:     "14:00",
		RequestedLocation: "Field 2",
		Reason:            "field conflict",
		RequesterName:     "Casey Coach",
	})

	if !strings.Contains(message.Subject, "Schedule Change Requested") {
		t.Errorf("subject = %q", message.Subject)
	}
	if !strings.Contains(message.Subject, "Metro Soccer League") {
		t.Errorf("subject missing league name: %q", message.Subject)
	}
	for _, want := range []string{"Casey Coach", "Rapids vs Thunder", "2026-09-19", "field conflict"} {
		if !strings.Contains(message.Body, want) {
			t.Errorf("body missing %q:\n%s", want, message.Body)
		}
	}
}

func TestBuildChangeReviewedEmail(t *testing.T) {
	game := GameDetails{LeagueName: "Metro", HomeTeam: "Rapids", AwayTeam: "Thunder", Date: "2026-09-19", Time: "14:00", Location: "Field 2"}

	approved := BuildChangeReviewedEmail(ReviewDetails{Game: game, Approved: true, ReviewNotes: "works for us"})
	if !strings.Contains(approved.Subject, "Approved") {
		t.Errorf("approved subject = %q", approved.Subject)
	}
	if !strings.Contains(approved.Body, "works for us") {
		t.Errorf("approved body missing notes:\n%s", approved.Body)
	}

	denied := BuildChangeReviewedEmail(ReviewDetails{Game: game, Approved: false})
	if !strings.Contains(denied.Subject, "Denied") {
		t.Errorf("denied subject = %q", denied.Subject)
	}
	if !strings.Contains(denied.Body, "keeps its current schedule") {
		t.Errorf("denied body:\n%s", denied.Body)
	}
}

func TestBuildGameNoticeEmailDefaults(t *testing.T) {
	message := BuildGameNoticeEmail(GameNoticeDetails{
		Game:   GameDetails{HomeTeam: "Rapids", AwayTeam: "Thunder"},
		Action: "postponed",
		Reason: "frozen pitch",
	})
	if !strings.Contains(message.Subject, "Game Postponed") {
		t.Errorf("subject = %q", message.Subject)
	}
	if !strings.Contains(message.Body, "frozen pitch") {
		t.Errorf("body missing reason:\n%s", message.Body)
	}
	if !strings.Contains(message.Body, "Date: TBD") {
		t.Errorf("body should default blank fields to TBD:\n%s", message.Body)
	}
}

func TestBuildPendingDigestEmail(t *testing.T) {
	one := BuildPendingDigestEmail("Metro", 1)
	if !strings.Contains(one.Body, "1 pending schedule change request awaiting") {
		t.Errorf("singular body: %s", one.Body)
	}
	many := BuildPendingDigestEmail("Metro", 4)
	if !strings.Contains(many.Body, "4 pending schedule change requests awaiting") {
		t.Errorf("plural body: %s", many.Body)
	}
}
