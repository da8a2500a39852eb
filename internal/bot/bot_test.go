package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"game-checker-bot/internal/config"
	"game-checker-bot/internal/conversation"
	"game-checker-bot/internal/db"
	"game-checker-bot/internal/i18n"
	"game-checker-bot/internal/present"
	"game-checker-bot/internal/steam"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI records every outgoing call in order.
type fakeAPI struct {
	mu        sync.Mutex
	calls     []tgbotapi.Chattable
	nextID    int
	failPhoto bool
	panicSend bool
	updates   chan tgbotapi.Update
	stopped   bool
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
	if f.panicSend {
		panic("send exploded")
	}
	if _, ok := c.(tgbotapi.PhotoConfig); ok && f.failPhoto {
		return tgbotapi.Message{}, errors.New("Bad Request: wrong type of the web page content")
	}
	f.nextID++
	return tgbotapi.Message{MessageID: 1000 + f.nextID}, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return f.updates
}

func (f *fakeAPI) StopReceivingUpdates() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
}

func (f *fakeAPI) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

func (f *fakeAPI) messages() []tgbotapi.MessageConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []tgbotapi.MessageConfig
	for _, c := range f.calls {
		if m, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, m)
		}
	}
	return out
}

func (f *fakeAPI) edits() []tgbotapi.EditMessageTextConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []tgbotapi.EditMessageTextConfig
	for _, c := range f.calls {
		if m, ok := c.(tgbotapi.EditMessageTextConfig); ok {
			out = append(out, m)
		}
	}
	return out
}

func (f *fakeAPI) deletes() []tgbotapi.DeleteMessageConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []tgbotapi.DeleteMessageConfig
	for _, c := range f.calls {
		if m, ok := c.(tgbotapi.DeleteMessageConfig); ok {
			out = append(out, m)
		}
	}
	return out
}

func (f *fakeAPI) photos() []tgbotapi.PhotoConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []tgbotapi.PhotoConfig
	for _, c := range f.calls {
		if m, ok := c.(tgbotapi.PhotoConfig); ok {
			out = append(out, m)
		}
	}
	return out
}

func (f *fakeAPI) callbacks() []tgbotapi.CallbackConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []tgbotapi.CallbackConfig
	for _, c := range f.calls {
		if m, ok := c.(tgbotapi.CallbackConfig); ok {
			out = append(out, m)
		}
	}
	return out
}

func (f *fakeAPI) lastMessage(t *testing.T) tgbotapi.MessageConfig {
	t.Helper()
	msgs := f.messages()
	require.NotEmpty(t, msgs)
	return msgs[len(msgs)-1]
}

// fakeSteam serves searches and details from memory.
type fakeSteam struct {
	mu        sync.Mutex
	results   map[string][]steam.SearchCandidate
	details   map[int]*steam.GameDetail
	searchErr error
	terms     []string
	regions   []string
}

func (s *fakeSteam) Search(_ context.Context, term string, profile steam.RegionProfile) ([]steam.SearchCandidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.terms = append(s.terms, term)
	s.regions = append(s.regions, profile.Code)
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	return s.results[term], nil
}

func (s *fakeSteam) AppDetails(_ context.Context, id int, profile steam.RegionProfile) (*steam.GameDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.regions = append(s.regions, profile.Code)
	d, ok := s.details[id]
	if !ok {
		return nil, steam.ErrNotFound
	}
	out := *d
	out.Region = profile.Code
	return &out, nil
}

type testEnv struct {
	bot   *Bot
	api   *fakeAPI
	steam *fakeSteam
	store db.Store
	cfg   *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()

	localizer, err := i18n.New(os.DirFS("../../locales"))
	require.NoError(t, err)

	store, err := db.NewFileStore(filepath.Join(dir, "users.json"), "RU")
	require.NoError(t, err)

	cfg := &config.Config{DefaultRegion: "RU", DatasetPath: filepath.Join(dir, "DataSet.csv")}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fs := &fakeSteam{
		results: map[string][]steam.SearchCandidate{},
		details: map[int]*steam.GameDetail{},
	}
	api := &fakeAPI{updates: make(chan tgbotapi.Update)}

	b := newBot(api, cfg, localizer, store,
		steam.NewResolver(fs, nil, nil, logger),
		steam.NewFetcher(fs, nil, logger))
	b.logger = logger

	return &testEnv{bot: b, api: api, steam: fs, store: store, cfg: cfg}
}

func (e *testEnv) text(key string) string {
	return e.bot.localizer.Get("ru", key)
}

const testUserID = 42

func testUser(lang string) *tgbotapi.User {
	return &tgbotapi.User{ID: testUserID, FirstName: "Геральт", UserName: "geralt", LanguageCode: lang}
}

func textUpdate(text string) tgbotapi.Update {
	msg := &tgbotapi.Message{
		MessageID: 1,
		From:      testUser("ru"),
		Chat:      &tgbotapi.Chat{ID: testUserID, Type: "private"},
		Text:      text,
	}
	if strings.HasPrefix(text, "/") {
		cmd := strings.Fields(text)[0]
		msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd)}}
	}
	return tgbotapi.Update{Message: msg}
}

func callbackUpdate(messageID int, data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:   "cb-1",
		From: testUser("ru"),
		Message: &tgbotapi.Message{
			MessageID: messageID,
			Chat:      &tgbotapi.Chat{ID: testUserID, Type: "private"},
		},
		Data: data,
	}}
}

func (e *testEnv) send(updates ...tgbotapi.Update) {
	for _, u := range updates {
		e.bot.handleUpdate(context.Background(), u)
	}
}

func hades() *steam.GameDetail {
	return &steam.GameDetail{
		ID:               1145360,
		SteamAppID:       1145360,
		Name:             "Hades",
		ShortDescription: "Defy the god of the dead.",
		HeaderImage:      "https://cdn.example/hades.jpg",
		PriceOverview:    &steam.PriceOverview{Currency: "RUB", FinalFormatted: "435 руб."},
	}
}

func keyboardData(markup tgbotapi.InlineKeyboardMarkup) []string {
	var out []string
	for _, row := range markup.InlineKeyboard {
		for _, btn := range row {
			if btn.CallbackData != nil {
				out = append(out, *btn.CallbackData)
			}
		}
	}
	return out
}

func TestSearchCommand_PromptsAndAwaitsName(t *testing.T) {
	e := newTestEnv(t)
	e.send(textUpdate("/search"))

	msg := e.api.lastMessage(t)
	assert.Equal(t, e.text("search_prompt"), msg.Text)
	assert.Equal(t, tgbotapi.ModeMarkdown, msg.ParseMode)
	keyboard, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	assert.Equal(t, []string{callbackCancelSearch}, keyboardData(keyboard))

	assert.Equal(t, conversation.StatusAwaitingName, e.bot.states.Get(testUserID).Status)

	rec, err := e.store.Get(testUserID)
	require.NoError(t, err)
	assert.Equal(t, "geralt", rec.Username)
}

func TestFreeTextIgnoredWhenIdle(t *testing.T) {
	e := newTestEnv(t)
	e.send(textUpdate("Hades"))

	assert.Empty(t, e.api.messages())
	assert.Empty(t, e.steam.terms)
}

func TestGameName_TooShort(t *testing.T) {
	e := newTestEnv(t)
	e.send(textUpdate("/search"), textUpdate("  a "))

	assert.Equal(t, e.text("search_too_short"), e.api.lastMessage(t).Text)
	assert.Empty(t, e.steam.terms)
	assert.Equal(t, conversation.StatusAwaitingName, e.bot.states.Get(testUserID).Status)
}

func TestGameName_SingleResultSendsPhoto(t *testing.T) {
	e := newTestEnv(t)
	e.steam.results["Hades"] = []steam.SearchCandidate{{ID: 1145360, Name: "Hades"}}
	e.steam.details[1145360] = hades()

	e.send(textUpdate("/search"))
	e.api.reset()
	e.send(textUpdate("Hades"))

	msgs := e.api.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "🔍 Ищу *Hades*...", msgs[0].Text)

	photos := e.api.photos()
	require.Len(t, photos, 1)
	assert.Contains(t, photos[0].Caption, "🎮 *Hades*")
	assert.Contains(t, photos[0].Caption, "435 руб.")
	assert.Equal(t, tgbotapi.ModeMarkdown, photos[0].ParseMode)

	deletes := e.api.deletes()
	require.Len(t, deletes, 1)
	assert.Equal(t, 1002, deletes[0].MessageID) // 1001 is the prompt

	assert.Equal(t, conversation.StatusIdle, e.bot.states.Get(testUserID).Status)
	assert.Equal(t, []string{"Hades"}, e.steam.terms)
}

func TestGameName_PhotoRejectedFallsBackToEdit(t *testing.T) {
	e := newTestEnv(t)
	e.api.failPhoto = true
	e.steam.results["Hades"] = []steam.SearchCandidate{{ID: 1145360, Name: "Hades"}}
	e.steam.details[1145360] = hades()

	e.send(textUpdate("/search"))
	e.api.reset()
	e.send(textUpdate("Hades"))

	edits := e.api.edits()
	require.Len(t, edits, 1)
	assert.Equal(t, 1002, edits[0].MessageID)
	assert.Equal(t, present.Render(&steam.GameDetail{
		ID: 1145360, SteamAppID: 1145360, Region: "RU", Name: "Hades",
		ShortDescription: "Defy the god of the dead.", HeaderImage: "https://cdn.example/hades.jpg",
		PriceOverview: &steam.PriceOverview{Currency: "RUB", FinalFormatted: "435 руб."},
	}, "RU"), edits[0].Text)
	assert.Empty(t, e.api.deletes())
}

func TestGameName_NoHeaderImageEditsPlaceholder(t *testing.T) {
	e := newTestEnv(t)
	d := hades()
	d.HeaderImage = ""
	e.steam.results["Hades"] = []steam.SearchCandidate{{ID: 1145360, Name: "Hades"}}
	e.steam.details[1145360] = d

	e.send(textUpdate("/search"), textUpdate("Hades"))

	assert.Empty(t, e.api.photos())
	edits := e.api.edits()
	require.Len(t, edits, 1)
	assert.Contains(t, edits[0].Text, "🎮 *Hades*")
}

func TestGameName_SeveralResultsShowMenu(t *testing.T) {
	e := newTestEnv(t)
	var hits []steam.SearchCandidate
	for i := 1; i <= 6; i++ {
		hits = append(hits, steam.SearchCandidate{ID: 100 + i, Name: fmt.Sprintf("Dark Souls %d", i)})
	}
	hits[0].Name = "Dark Souls: Prepare To Die Edition With Every DLC"
	e.steam.results["Dark Souls"] = hits

	e.send(textUpdate("/search"), textUpdate("Dark Souls"))

	edits := e.api.edits()
	require.Len(t, edits, 1)
	assert.Equal(t, e.text("search_choose"), edits[0].Text)
	require.NotNil(t, edits[0].ReplyMarkup)
	assert.Equal(t, []string{
		"select_game:101", "select_game:102", "select_game:103", "select_game:104", "select_game:105",
		callbackCancelSearch,
	}, keyboardData(*edits[0].ReplyMarkup))
	assert.Equal(t, "🎮 Dark Souls: Prepare To Die Editi...", edits[0].ReplyMarkup.InlineKeyboard[0][0].Text)

	state := e.bot.states.Get(testUserID)
	assert.Equal(t, conversation.StatusAwaitingChoice, state.Status)
	assert.Equal(t, "Dark Souls", state.Query)
	assert.Len(t, state.Candidates, 5)
	assert.Equal(t, edits[0].MessageID, state.MessageID)
}

func TestGameName_NotFoundStaysInSearch(t *testing.T) {
	e := newTestEnv(t)
	e.send(textUpdate("/search"), textUpdate("Зззз_нет"))

	require.Len(t, e.api.deletes(), 1)
	msg := e.api.lastMessage(t)
	assert.Contains(t, msg.Text, "не найдена")
	assert.Contains(t, msg.Text, "*Зззз_нет*")
	assert.Contains(t, msg.Text, steam.RegionNotice("RU"))
	assert.Contains(t, msg.Text, steam.SuggestionFor("Зззз_нет"))
	assert.Equal(t, conversation.StatusAwaitingName, e.bot.states.Get(testUserID).Status)
}

func TestGameName_BoldQueryIsNotBackslashed(t *testing.T) {
	e := newTestEnv(t)
	e.send(textUpdate("/search"))
	e.api.reset()
	e.send(textUpdate("Half_Life *2*"))

	msgs := e.api.messages()
	require.NotEmpty(t, msgs)
	assert.Equal(t, "🔍 Ищу *Half_Life 2*...", msgs[0].Text)
}

func TestGameName_UpstreamDown(t *testing.T) {
	e := newTestEnv(t)
	e.steam.searchErr = fmt.Errorf("%w: connection refused", steam.ErrUnavailable)

	e.send(textUpdate("/search"), textUpdate("Hades"))

	assert.Equal(t, e.text("search_unavailable"), e.api.lastMessage(t).Text)
	assert.Equal(t, conversation.StatusAwaitingName, e.bot.states.Get(testUserID).Status)
}

func TestGameName_DetailsFailReturnsToSearch(t *testing.T) {
	e := newTestEnv(t)
	e.steam.results["Hades"] = []steam.SearchCandidate{{ID: 1145360, Name: "Hades"}}

	e.send(textUpdate("/search"), textUpdate("Hades"))

	msg := e.api.lastMessage(t)
	assert.Contains(t, msg.Text, "*Hades*")
	assert.Contains(t, msg.Text, "Попробуйте другое название")
	require.Len(t, e.api.deletes(), 1)
	assert.Equal(t, conversation.StatusAwaitingName, e.bot.states.Get(testUserID).Status)
}

func TestSelectGame_UsesStoredRegion(t *testing.T) {
	e := newTestEnv(t)
	e.steam.details[570] = &steam.GameDetail{ID: 570, Name: "Dota 2", IsFree: true, HeaderImage: "https://cdn.example/dota.jpg"}
	require.NoError(t, e.store.SetRegion(&config.User{ID: testUserID, Username: "geralt"}, "TR"))
	e.bot.states.AwaitChoice(testUserID, testUserID, "дота", 77, []steam.SearchCandidate{{ID: 570, Name: "Dota 2"}})

	e.send(callbackUpdate(77, "select_game:570"))

	assert.Equal(t, conversation.StatusIdle, e.bot.states.Get(testUserID).Status)
	edits := e.api.edits()
	require.NotEmpty(t, edits)
	assert.Equal(t, e.text("details_loading"), edits[0].Text)
	photos := e.api.photos()
	require.Len(t, photos, 1)
	assert.Contains(t, photos[0].Caption, present.FreeMarker)
	assert.Contains(t, photos[0].Caption, "🌍 Регион: TR")
	assert.Equal(t, []string{"TR"}, e.steam.regions)
	require.Len(t, e.api.deletes(), 1)
	assert.Equal(t, 77, e.api.deletes()[0].MessageID)
}

func TestSelectGame_FetchFails(t *testing.T) {
	e := newTestEnv(t)
	e.send(callbackUpdate(77, "select_game:404"))

	edits := e.api.edits()
	require.Len(t, edits, 2)
	assert.Equal(t, e.text("details_failed"), edits[1].Text)
}

func TestSelectGame_BadPayload(t *testing.T) {
	e := newTestEnv(t)
	e.send(callbackUpdate(77, "select_game:abc"))

	cbs := e.api.callbacks()
	require.Len(t, cbs, 1)
	assert.Equal(t, e.text("callback_load_error"), cbs[0].Text)
	assert.Empty(t, e.api.edits())
}

func TestCancelSearchButton(t *testing.T) {
	e := newTestEnv(t)
	e.send(textUpdate("/search"), callbackUpdate(1001, "cancel_search"))

	assert.Equal(t, conversation.StatusIdle, e.bot.states.Get(testUserID).Status)
	edits := e.api.edits()
	require.Len(t, edits, 1)
	assert.Equal(t, "❌ Поиск отменен", edits[0].Text)
	assert.Nil(t, edits[0].ReplyMarkup)
	cbs := e.api.callbacks()
	require.Len(t, cbs, 1)
	assert.Equal(t, "Поиск отменен", cbs[0].Text)
}

func TestCancelCommand(t *testing.T) {
	e := newTestEnv(t)

	e.send(textUpdate("/cancel"))
	assert.Equal(t, e.text("search_nothing_to_cancel"), e.api.lastMessage(t).Text)

	e.bot.states.AwaitChoice(testUserID, testUserID, "дота", 55, nil)
	e.send(textUpdate("/cancel"))
	edits := e.api.edits()
	require.Len(t, edits, 1)
	assert.Equal(t, 55, edits[0].MessageID)
	assert.Equal(t, conversation.StatusIdle, e.bot.states.Get(testUserID).Status)
}

func TestNewTextWhileChoosingStartsNewSearch(t *testing.T) {
	e := newTestEnv(t)
	e.steam.results["Hades"] = []steam.SearchCandidate{{ID: 1145360, Name: "Hades"}}
	e.steam.details[1145360] = hades()
	e.bot.states.AwaitChoice(testUserID, testUserID, "дота", 55, []steam.SearchCandidate{{ID: 570}, {ID: 571}})

	e.send(textUpdate("Hades"))

	assert.Len(t, e.api.photos(), 1)
	assert.Equal(t, conversation.StatusIdle, e.bot.states.Get(testUserID).Status)
}

func TestRegionCommandAndCallback(t *testing.T) {
	e := newTestEnv(t)
	e.send(textUpdate("/region"))

	msg := e.api.lastMessage(t)
	assert.Contains(t, msg.Text, "*RU*")
	keyboard, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	assert.Equal(t, []string{"region:RU", "region:US", "region:EU", "region:KZ", "region:TR", "region:AR", "region:BR"}, keyboardData(keyboard))
	assert.Equal(t, "✅ RU", keyboard.InlineKeyboard[0][0].Text)

	e.send(callbackUpdate(1001, "region:US"))
	rec, err := e.store.Get(testUserID)
	require.NoError(t, err)
	assert.Equal(t, "US", rec.Region)
	edits := e.api.edits()
	require.Len(t, edits, 1)
	assert.Contains(t, edits[0].Text, "*US*")

	e.send(callbackUpdate(1001, "region:XX"))
	cbs := e.api.callbacks()
	last := cbs[len(cbs)-1]
	assert.Equal(t, e.text("region_unknown"), last.Text)
	assert.True(t, last.ShowAlert)
	rec, err = e.store.Get(testUserID)
	require.NoError(t, err)
	assert.Equal(t, "US", rec.Region)
}

func TestReportCommands(t *testing.T) {
	e := newTestEnv(t)

	e.send(textUpdate("/top"))
	assert.Equal(t, e.text("dataset_error"), e.api.lastMessage(t).Text)

	csv := "Ник;Игра;Жанр;Время;Достижения\n" +
		"a;The Witcher 3;RPG;10;5\n" +
		"b;The Witcher 3;RPG;20;15\n" +
		"c;Dota 2;MOBA;300;40\n"
	require.NoError(t, os.WriteFile(e.cfg.DatasetPath, []byte(csv), 0o644))

	e.send(textUpdate("/top"))
	msg := e.api.lastMessage(t)
	assert.Equal(t, tgbotapi.ModeHTML, msg.ParseMode)
	assert.Contains(t, msg.Text, "The Witcher 3")
	assert.True(t, strings.HasPrefix(msg.Text, "<b>"))

	e.send(textUpdate("/skewness"))
	assert.Contains(t, e.api.lastMessage(t).Text, "Коэффициент асимметрии")
}

func TestReportCommands_NonFinitePlaytime(t *testing.T) {
	e := newTestEnv(t)
	csv := "Ник;Игра;Жанр;Время;Достижения\n" +
		"a;X;RPG;NaN;1\n" +
		"b;Y;RPG;10;2\n" +
		"c;Z;RPG;20;3\n"
	require.NoError(t, os.WriteFile(e.cfg.DatasetPath, []byte(csv), 0o644))

	assert.NotPanics(t, func() { e.send(textUpdate("/playtime")) })
	assert.Equal(t, e.text("dataset_error"), e.api.lastMessage(t).Text)
}

func TestSafeHandleUpdate_RecoversPanic(t *testing.T) {
	e := newTestEnv(t)
	e.api.panicSend = true

	assert.NotPanics(t, func() {
		e.bot.safeHandleUpdate(context.Background(), textUpdate("/help"))
	})
}

func TestEnglishUserGetsEnglishText(t *testing.T) {
	e := newTestEnv(t)
	u := textUpdate("/search")
	u.Message.From.LanguageCode = "en-GB"
	e.send(u)

	assert.Contains(t, e.api.lastMessage(t).Text, "Smart game search")
}

func TestStartMenu(t *testing.T) {
	e := newTestEnv(t)
	e.send(textUpdate("/start"))

	msg := e.api.lastMessage(t)
	assert.Contains(t, msg.Text, "Привет, Геральт!")
	keyboard, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	assert.Equal(t, []string{"menu_search", "menu_region", "menu_help"}, keyboardData(keyboard))

	e.send(callbackUpdate(1001, "menu_search"))
	assert.Equal(t, conversation.StatusAwaitingName, e.bot.states.Get(testUserID).Status)
}

func TestStart_HandlesUpdatesUntilCancelled(t *testing.T) {
	e := newTestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		e.bot.Start(ctx)
		close(done)
	}()

	e.api.updates <- textUpdate("/help")
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
	assert.Equal(t, e.text("help_text"), e.api.lastMessage(t).Text)
	assert.True(t, e.api.stopped)
}
