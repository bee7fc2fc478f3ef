package testutil

import (
	"context"
	"sync"

	"github.com/nhle/followup/internal/host"
	"github.com/nhle/followup/internal/model"
)

// FakeMailbox is an in-memory host.Mailbox that records the order of
// the primitives it is asked to run.
type FakeMailbox struct {
	mu sync.Mutex

	DraftID  string
	Token    string
	BaseURL  string
	SaveErr  error
	TokenErr error
	SendErr  error

	Calls []string
}

var _ host.Mailbox = (*FakeMailbox)(nil)

// NewFakeMailbox returns a mailbox whose primitives all succeed.
func NewFakeMailbox() *FakeMailbox {
	return &FakeMailbox{
		DraftID: "AAMkAD/draft+1",
		Token:   "token-1",
		BaseURL: "https://outlook.example.com/api",
	}
}

func (f *FakeMailbox) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, call)
}

// CallLog returns a copy of the recorded calls.
func (f *FakeMailbox) CallLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.Calls...)
}

func (f *FakeMailbox) SaveDraft(context.Context) (string, error) {
	f.record("save")
	if f.SaveErr != nil {
		return "", f.SaveErr
	}
	return f.DraftID, nil
}

func (f *FakeMailbox) CallbackToken(context.Context) (string, error) {
	f.record("token")
	if f.TokenErr != nil {
		return "", f.TokenErr
	}
	return f.Token, nil
}

func (f *FakeMailbox) ConvertToRestID(itemID string) string {
	f.record("convert")
	return host.ConvertToRestID(itemID)
}

func (f *FakeMailbox) RestURL() string {
	return f.BaseURL
}

func (f *FakeMailbox) Send(context.Context) error {
	f.record("send")
	return f.SendErr
}

// PatchCall captures the arguments of one flag update.
type PatchCall struct {
	BaseURL string
	ItemID  string
	Token   string
	Dates   model.FlagDates
}

// FakeRESTPatcher records REST flag updates and fails with Err when set.
type FakeRESTPatcher struct {
	Err   error
	Calls []PatchCall
	log   *FakeMailbox
}

// NewFakeRESTPatcher returns a REST patcher that also appends "rest"
// to the mailbox call log so ordering can be asserted.
func NewFakeRESTPatcher(log *FakeMailbox) *FakeRESTPatcher {
	return &FakeRESTPatcher{log: log}
}

func (f *FakeRESTPatcher) PatchFlag(
	_ context.Context, baseURL, restID, token string, dates model.FlagDates,
) error {
	if f.log != nil {
		f.log.record("rest")
	}
	f.Calls = append(f.Calls, PatchCall{BaseURL: baseURL, ItemID: restID, Token: token, Dates: dates})
	return f.Err
}

// FakeLegacyPatcher records EWS flag updates and fails with Err when set.
type FakeLegacyPatcher struct {
	Err   error
	Calls []PatchCall
	log   *FakeMailbox
}

// NewFakeLegacyPatcher returns an EWS patcher that also appends "ews"
// to the mailbox call log.
func NewFakeLegacyPatcher(log *FakeMailbox) *FakeLegacyPatcher {
	return &FakeLegacyPatcher{log: log}
}

func (f *FakeLegacyPatcher) UpdateItemFlag(
	_ context.Context, itemID string, dates model.FlagDates,
) error {
	if f.log != nil {
		f.log.record("ews")
	}
	f.Calls = append(f.Calls, PatchCall{ItemID: itemID, Dates: dates})
	return f.Err
}
