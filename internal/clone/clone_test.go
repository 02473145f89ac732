package clone

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/uidclone/internal/block0"
	"github.com/jask/uidclone/internal/tag"
)

func defaultForm(uid string) Form {
	return Form{UID: uid, Tail: block0.DefaultTail, Key: block0.DefaultKey}
}

func logs(effects []Effect) []string {
	var out []string
	for _, e := range effects {
		if l, ok := e.(Log); ok {
			out = append(out, l.Text)
		}
	}
	return out
}

func findWrite(t *testing.T, effects []Effect) Write {
	t.Helper()
	for _, e := range effects {
		if w, ok := e.(Write); ok {
			return w
		}
	}
	t.Fatalf("no write effect in %#v", effects)
	return Write{}
}

func TestFormParseValidationOrder(t *testing.T) {
	cases := []struct {
		name string
		form Form
		want error
	}{
		{"uid not hex", Form{UID: "0411223G", Tail: block0.DefaultTail, Key: block0.DefaultKey}, block0.ErrNotHex},
		{"tail not hex", Form{UID: "04112233", Tail: "xyz", Key: block0.DefaultKey}, block0.ErrNotHex},
		{"empty key", Form{UID: "04112233", Tail: block0.DefaultTail, Key: ""}, block0.ErrNotHex},
		{"uid with spaces", Form{UID: " 04112233", Tail: block0.DefaultTail, Key: block0.DefaultKey}, block0.ErrNotHex},
		{"uid with newline", Form{UID: "04112233\n", Tail: block0.DefaultTail, Key: block0.DefaultKey}, block0.ErrNotHex},
		{"key with spaces", Form{UID: "04112233", Tail: block0.DefaultTail, Key: "FFFFFFFFFFFF "}, block0.ErrNotHex},
		{"not hex beats key length", Form{UID: "zz", Tail: block0.DefaultTail, Key: "FF"}, block0.ErrNotHex},
		{"short key", Form{UID: "04112233", Tail: block0.DefaultTail, Key: "FFFFFFFFFF"}, tag.ErrKeyLength},
		{"key length beats uid length", Form{UID: "041122", Tail: block0.DefaultTail, Key: "FF"}, tag.ErrKeyLength},
		{"odd uid", Form{UID: "041122334", Tail: block0.DefaultTail, Key: block0.DefaultKey}, block0.ErrInvalidLength},
		{"5 byte uid", Form{UID: "0411223344", Tail: block0.DefaultTail, Key: block0.DefaultKey}, block0.ErrInvalidLength},
		{"short tail 4b", Form{UID: "04112233", Tail: "8804004759", Key: block0.DefaultKey}, block0.ErrInsufficientTail},
		{"short tail 7b", Form{UID: "04112233445566", Tail: block0.DefaultTail[:16], Key: block0.DefaultKey}, block0.ErrInsufficientTail},
	}
	for _, tc := range cases {
		_, err := tc.form.Parse()
		require.ErrorIs(t, err, tc.want, tc.name)
	}
}

func TestFormParseSelectsTail(t *testing.T) {
	req, err := Form{UID: "04112233", Tail: "880400475955D141103607FFFFFFFFFFFF", Key: "ffffffffffff", UseKeyB: true}.Parse()
	require.NoError(t, err)
	require.Equal(t, "0411223304880400475955D141103607", req.Block0.String())
	require.True(t, req.UseKeyB)

	// Odd digit counts are fine as long as the used part pairs up.
	req, err = Form{UID: "04112233445566", Tail: "1" + "AABBCCDDEEFF001122", Key: block0.DefaultKey}.Parse()
	require.NoError(t, err)
	require.Equal(t, "04112233445566AABBCCDDEEFF001122", req.Block0.String())
}

func TestCalculateInvalidInputKeepsSession(t *testing.T) {
	s := NewSession()
	next, effects := Transition(s, Calculate{Form: Form{UID: "0411", Tail: block0.DefaultTail, Key: block0.DefaultKey}})
	require.Equal(t, StateInitial, next.State)
	require.Len(t, effects, 1)
	notice, ok := effects[0].(Notice)
	require.True(t, ok)
	require.Contains(t, notice.Text, "4, 7 or 10 bytes")
}

func TestScanInInitialFillsUID(t *testing.T) {
	uid := tag.NewUID([]byte{0xA1, 0xB2, 0xC3, 0xD4})
	next, effects := Transition(NewSession(), TagScanned{UID: uid})
	require.Equal(t, StateInitial, next.State)
	require.Equal(t, FillUID{UID: "A1B2C3D4"}, effects[0])
	require.Contains(t, logs(effects)[0], "A1B2C3D4")
}

func TestFullCloneAgainstMagicTag(t *testing.T) {
	ctx := context.Background()
	field := tag.DefaultField()
	magic, err := field.Get("magic gen2 4b")
	require.NoError(t, err)

	s, effects := Transition(NewSession(), Calculate{Form: defaultForm("a1b2c3d4")})
	require.Equal(t, StateBlock0Computed, s.State)
	require.Contains(t, effects, Effect(HideOptions{}))
	require.Contains(t, logs(effects)[0], "A1B2C3D404880400475955D141103607")

	s, effects = Transition(s, TagScanned{UID: magic.UID()})
	require.Equal(t, StateBlock0Computed, s.State)
	w := findWrite(t, effects)
	require.Equal(t, 4, w.UIDLen)

	res := WriteBlock0(ctx, magic, w)
	require.True(t, res.OK())

	s, _ = Transition(s, WriteFinished{Result: res})
	require.Equal(t, StateCloned, s.State)

	s, effects = Transition(s, TagScanned{UID: magic.UID()})
	require.Equal(t, StateInitial, s.State)
	require.Contains(t, logs(effects)[1], "cloned successfully")
	require.Nil(t, s.UID)
}

func TestConfirmMismatchReturnsToBlock0Computed(t *testing.T) {
	s, _ := Transition(NewSession(), Calculate{Form: defaultForm("04112233")})
	s, _ = Transition(s, WriteFinished{Result: WriteResult{Outcome: WriteSuccess, Gen: s.Gen}})
	require.Equal(t, StateCloned, s.State)

	s, effects := Transition(s, TagScanned{UID: tag.NewUID([]byte{0x04, 0x11, 0x22, 0x34})})
	require.Equal(t, StateBlock0Computed, s.State)
	lines := logs(effects)
	require.Len(t, lines, 3)
	require.Contains(t, lines[1], "04112233 <-> 04112234")
	require.Contains(t, lines[1], "1 hex digits differ")
	require.Equal(t, "04112233", s.UIDHex())
}

func TestWriteFailuresKeepBlock0Computed(t *testing.T) {
	s, _ := Transition(NewSession(), Calculate{Form: defaultForm("04112233")})
	for _, r := range []WriteResult{
		{Outcome: WriteAuthFailed, Code: tag.StatusAuthFailed},
		{Outcome: WriteIOError, Code: tag.StatusError},
		{Outcome: WriteLengthMismatch, TagUIDLen: 7},
		{Outcome: WriteUnknown, Code: 2},
	} {
		r.Gen = s.Gen
		next, effects := Transition(s, WriteFinished{Result: r})
		require.Equal(t, StateBlock0Computed, next.State, r.String())
		require.NotEmpty(t, effects, r.String())
	}
}

func TestStaleWriteResultIgnored(t *testing.T) {
	next, effects := Transition(NewSession(), WriteFinished{Result: WriteResult{Outcome: WriteSuccess}})
	require.Equal(t, StateInitial, next.State)
	require.Empty(t, effects)
}

func TestWriteResultAfterRecalculationIgnored(t *testing.T) {
	s, _ := Transition(NewSession(), Calculate{Form: defaultForm("04112233")})
	s, effects := Transition(s, TagScanned{UID: tag.NewUID([]byte{1, 2, 3, 4})})
	old := findWrite(t, effects)
	require.Equal(t, s.Gen, old.Gen)

	s, _ = Transition(s, Calculate{Form: defaultForm("A1B2C3D4")})
	require.Equal(t, StateBlock0Computed, s.State)
	require.NotEqual(t, old.Gen, s.Gen)

	next, effects := Transition(s, WriteFinished{Result: WriteResult{Outcome: WriteSuccess, Gen: old.Gen}})
	require.Equal(t, StateBlock0Computed, next.State)
	require.Equal(t, "A1B2C3D4", next.UIDHex())
	require.Empty(t, effects)

	// The write for the current calculation still lands.
	next, _ = Transition(s, WriteFinished{Result: WriteResult{Outcome: WriteSuccess, Gen: s.Gen}})
	require.Equal(t, StateCloned, next.State)
}

func TestWriteResultAfterResetAndRecalculationIgnored(t *testing.T) {
	s, _ := Transition(NewSession(), Calculate{Form: defaultForm("04112233")})
	stale := s.Gen
	s, _ = Transition(s, Reset{})
	s, _ = Transition(s, Calculate{Form: defaultForm("04112233")})
	require.NotEqual(t, stale, s.Gen)

	next, effects := Transition(s, WriteFinished{Result: WriteResult{Outcome: WriteSuccess, Gen: stale}})
	require.Equal(t, StateBlock0Computed, next.State)
	require.Empty(t, effects)
}

func TestWriteBlock0CarriesGen(t *testing.T) {
	ft := &fakeTag{uid: tag.NewUID([]byte{1, 2, 3, 4}), status: tag.StatusOK}
	res := WriteBlock0(context.Background(), ft, Write{UIDLen: 4, Gen: 7})
	require.Equal(t, uint64(7), res.Gen)
	res = WriteBlock0(context.Background(), ft, Write{UIDLen: 7, Gen: 8})
	require.Equal(t, uint64(8), res.Gen)
}

func TestTransitionDoesNotAliasSession(t *testing.T) {
	s, _ := Transition(NewSession(), Calculate{Form: defaultForm("04112233")})
	next, _ := Transition(s, WriteFinished{Result: WriteResult{Outcome: WriteSuccess, Gen: s.Gen}})
	next.UID[0] = 0xFF
	require.Equal(t, "04112233", s.UIDHex())
}

func TestReset(t *testing.T) {
	s, _ := Transition(NewSession(), Calculate{Form: defaultForm("04112233")})
	gen := s.Gen
	s, effects := Transition(s, Reset{})
	require.Equal(t, StateInitial, s.State)
	require.Nil(t, s.UID)
	require.Equal(t, gen, s.Gen)
	require.Empty(t, effects)
}

type fakeTag struct {
	uid    tag.UID
	status tag.Status
	writes int
	closed bool
}

func (f *fakeTag) UID() tag.UID { return f.uid }

func (f *fakeTag) WriteBlock(_ context.Context, sector, block int, data []byte, _ tag.Key, _ bool) tag.Status {
	f.writes++
	if sector != 0 || block != 0 || len(data) != block0.Size {
		return tag.StatusError
	}
	return f.status
}

func (f *fakeTag) Close() error {
	f.closed = true
	return nil
}

func TestWriteBlock0Classification(t *testing.T) {
	uid4 := tag.NewUID([]byte{1, 2, 3, 4})
	cases := []struct {
		status tag.Status
		want   Outcome
	}{
		{tag.StatusOK, WriteSuccess},
		{tag.StatusAuthFailed, WriteAuthFailed},
		{tag.StatusError, WriteIOError},
		{1, WriteUnknown},
		{2, WriteUnknown},
	}
	for _, tc := range cases {
		ft := &fakeTag{uid: uid4, status: tc.status}
		res := WriteBlock0(context.Background(), ft, Write{UIDLen: 4})
		require.Equal(t, tc.want, res.Outcome)
		require.Equal(t, tc.status, res.Code)
		require.Equal(t, 1, ft.writes)
		require.Equal(t, tc.want == WriteSuccess, ft.closed)
	}
}

func TestWriteBlock0LengthMismatchSkipsWrite(t *testing.T) {
	ft := &fakeTag{uid: tag.NewUID([]byte{1, 2, 3, 4, 5, 6, 7})}
	res := WriteBlock0(context.Background(), ft, Write{UIDLen: 4})
	require.Equal(t, WriteLengthMismatch, res.Outcome)
	require.Equal(t, 7, res.TagUIDLen)
	require.Zero(t, ft.writes)
}

func TestWriteBlock0AgainstVirtualTags(t *testing.T) {
	ctx := context.Background()
	field := tag.DefaultField()
	req, err := defaultForm("04112233").Parse()
	require.NoError(t, err)
	w := Write{Block0: req.Block0, Key: req.Key, UIDLen: 4}

	original, err := field.Get("office badge")
	require.NoError(t, err)
	require.Equal(t, WriteIOError, WriteBlock0(ctx, original, w).Outcome)

	locked, err := field.Get("magic gen2 locked")
	require.NoError(t, err)
	require.Equal(t, WriteAuthFailed, WriteBlock0(ctx, locked, w).Outcome)

	seven, err := field.Get("magic gen2 7b")
	require.NoError(t, err)
	require.Equal(t, WriteLengthMismatch, WriteBlock0(ctx, seven, w).Outcome)
}

func TestConfirmClone(t *testing.T) {
	require.True(t, ConfirmClone([]byte{1, 2, 3, 4}, []byte{1, 2, 3, 4}))
	require.False(t, ConfirmClone([]byte{1, 2, 3, 4}, []byte{1, 2, 3, 5}))
	require.False(t, ConfirmClone([]byte{1, 2, 3, 4}, []byte{1, 2, 3, 4, 5, 6, 7}))
}
