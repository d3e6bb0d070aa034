package scenestack

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/stagehand/internal/application/scene"
)

// mockScene is a test double that records every hook into a shared log
type mockScene struct {
	name    string
	kind    scene.Kind
	running bool
	log     *[]string

	enterCalled   int
	exitCalled    int
	cleanupCalled int
}

func newMock(name string, log *[]string) *mockScene {
	return &mockScene{name: name, kind: scene.KindPlain, log: log}
}

func newTransitionMock(name string, log *[]string) *mockScene {
	return &mockScene{name: name, kind: scene.KindTransition, log: log}
}

func (m *mockScene) record(hook string) {
	*m.log = append(*m.log, m.name+"."+hook)
}

func (m *mockScene) Name() string     { return m.name }
func (m *mockScene) Kind() scene.Kind { return m.kind }
func (m *mockScene) IsRunning() bool  { return m.running }

func (m *mockScene) OnEnter() {
	m.running = true
	m.enterCalled++
	m.record("OnEnter")
}

func (m *mockScene) OnEnterTransitionDidFinish() { m.record("OnEnterTransitionDidFinish") }
func (m *mockScene) OnExitTransitionDidStart()   { m.record("OnExitTransitionDidStart") }

func (m *mockScene) OnExit() {
	m.running = false
	m.exitCalled++
	m.record("OnExit")
}

func (m *mockScene) Cleanup() {
	m.cleanupCalled++
	m.record("Cleanup")
}

func (m *mockScene) Draw(*ebiten.Image, mgl32.Mat4) {}

func newStack() *Stack {
	return New(0, zerolog.Nop())
}

// commit commits and fails the test on error
func commit(t *testing.T, st *Stack) bool {
	t.Helper()
	ok, err := st.Commit()
	require.NoError(t, err)
	return ok
}

func TestStack_PushFirstScene(t *testing.T) {
	var log []string
	st := newStack()
	a := newMock("A", &log)

	require.NoError(t, st.Push(a))
	assert.Equal(t, a, st.Pending())
	assert.Nil(t, st.Running())
	assert.False(t, st.SendCleanupToScene())

	assert.True(t, commit(t, st))
	assert.Equal(t, a, st.Running())
	assert.Nil(t, st.Pending())
	assert.Equal(t, []string{"A.OnEnter", "A.OnEnterTransitionDidFinish"}, log)
}

func TestStack_PushNil(t *testing.T) {
	st := newStack()
	assert.ErrorIs(t, st.Push(nil), ErrNilScene)
	assert.ErrorIs(t, st.Replace(nil), ErrNilScene)
}

func TestStack_CommitIdempotent(t *testing.T) {
	st := newStack()
	assert.False(t, commit(t, st), "nothing pending")

	var log []string
	require.NoError(t, st.Push(newMock("A", &log)))
	assert.True(t, commit(t, st))
	assert.False(t, commit(t, st))
	assert.Len(t, log, 2)
}

func TestStack_PushKeepsSceneBelow(t *testing.T) {
	var log []string
	st := newStack()
	a, b := newMock("A", &log), newMock("B", &log)

	require.NoError(t, st.Push(a))
	commit(t, st)
	log = nil

	require.NoError(t, st.Push(b))
	commit(t, st)

	assert.Equal(t, []string{
		"A.OnExitTransitionDidStart",
		"A.OnExit",
		"B.OnEnter",
		"B.OnEnterTransitionDidFinish",
	}, log, "pushed-over scene is not cleaned up")
	assert.Equal(t, 2, st.Depth())
}

func TestStack_CommitOrderPlainToPlain(t *testing.T) {
	var log []string
	st := newStack()
	a, b := newMock("A", &log), newMock("B", &log)

	require.NoError(t, st.Push(a))
	commit(t, st)
	log = nil

	require.NoError(t, st.Replace(b))
	assert.True(t, st.SendCleanupToScene())
	commit(t, st)

	assert.Equal(t, []string{
		"A.OnExitTransitionDidStart",
		"A.OnExit",
		"A.Cleanup",
		"B.OnEnter",
		"B.OnEnterTransitionDidFinish",
	}, log)
	assert.Equal(t, b, st.Running())
	assert.Equal(t, 1, st.Depth())
}

func TestStack_ReplaceRequiresRunningScene(t *testing.T) {
	var log []string
	st := newStack()
	require.NoError(t, st.Push(newMock("A", &log)))

	err := st.Replace(newMock("B", &log))
	assert.ErrorIs(t, err, ErrNoRunningScene)
}

func TestStack_ReplaceOnEmptyStackPushes(t *testing.T) {
	var log []string
	st := newStack()
	a := newMock("A", &log)

	require.NoError(t, st.Replace(a))
	assert.Equal(t, a, st.Pending())
	assert.False(t, st.SendCleanupToScene())
	assert.Equal(t, 1, st.Depth())
}

func TestStack_ReplaceSamePendingIsNoop(t *testing.T) {
	var log []string
	st := newStack()
	a, b := newMock("A", &log), newMock("B", &log)
	require.NoError(t, st.Push(a))
	commit(t, st)

	require.NoError(t, st.Replace(b))
	require.NoError(t, st.Replace(b))
	assert.Equal(t, 0, b.cleanupCalled)

	commit(t, st)
	assert.Equal(t, 1, b.enterCalled, "no double initialization")
}

func TestStack_ReplaceTwiceBeforeCommit(t *testing.T) {
	var log []string
	st := newStack()
	a, b, c := newMock("A", &log), newMock("B", &log), newMock("C", &log)
	require.NoError(t, st.Push(a))
	commit(t, st)

	require.NoError(t, st.Replace(b))
	require.NoError(t, st.Replace(c))

	assert.Equal(t, c, st.Pending(), "second replace wins")
	assert.Equal(t, 1, b.cleanupCalled, "discarded scene cleaned once")
	assert.Equal(t, 0, b.exitCalled, "discarded scene never ran")
	assert.Equal(t, 1, st.Depth())

	commit(t, st)
	assert.Equal(t, c, st.Running())
	assert.Equal(t, 1, a.cleanupCalled)
	assert.Equal(t, 0, b.enterCalled)
}

func TestStack_ReplaceDiscardsRunningPending(t *testing.T) {
	var log []string
	st := newStack()
	a, b, c := newMock("A", &log), newMock("B", &log), newMock("C", &log)
	require.NoError(t, st.Push(a))
	commit(t, st)

	// B is pending but already running (e.g. entered by a transition)
	require.NoError(t, st.Replace(b))
	b.running = true
	require.NoError(t, st.Replace(c))

	assert.Equal(t, 1, b.exitCalled)
	assert.Equal(t, 1, b.cleanupCalled)
}

func TestStack_PopToPrevious(t *testing.T) {
	var log []string
	st := newStack()
	a, b := newMock("A", &log), newMock("B", &log)
	require.NoError(t, st.Push(a))
	commit(t, st)
	require.NoError(t, st.Push(b))
	commit(t, st)
	log = nil

	ended, err := st.Pop()
	require.NoError(t, err)
	assert.False(t, ended)
	assert.Equal(t, a, st.Pending())
	assert.True(t, st.SendCleanupToScene())

	commit(t, st)
	assert.Equal(t, []string{
		"B.OnExitTransitionDidStart",
		"B.OnExit",
		"B.Cleanup",
		"A.OnEnter",
		"A.OnEnterTransitionDidFinish",
	}, log)
	assert.Equal(t, 1, st.Depth())
}

func TestStack_PopLastSceneEnds(t *testing.T) {
	var log []string
	st := newStack()
	require.NoError(t, st.Push(newMock("A", &log)))
	commit(t, st)

	ended, err := st.Pop()
	require.NoError(t, err)
	assert.True(t, ended)
	assert.Equal(t, 0, st.Depth())
	assert.Nil(t, st.Pending())
}

func TestStack_PopAfterLastSceneSignalsEndOnce(t *testing.T) {
	var log []string
	st := newStack()
	require.NoError(t, st.Push(newMock("A", &log)))
	commit(t, st)

	ended, err := st.Pop()
	require.NoError(t, err)
	require.True(t, ended)

	ended, err = st.Pop()
	assert.ErrorIs(t, err, ErrEmptyStack)
	assert.False(t, ended)

	ended, err = st.PopToLevel(0)
	assert.ErrorIs(t, err, ErrEmptyStack)
	assert.False(t, ended)
	assert.Equal(t, 0, st.Depth())
}

func TestStack_PopWithoutRunningScene(t *testing.T) {
	st := newStack()
	_, err := st.Pop()
	assert.ErrorIs(t, err, ErrNoRunningScene)

	_, err = st.PopToLevel(1)
	assert.ErrorIs(t, err, ErrNoRunningScene)
}

func TestStack_PopToLevel(t *testing.T) {
	var log []string
	st := newStack()
	a, b, c, d := newMock("A", &log), newMock("B", &log), newMock("C", &log), newMock("D", &log)
	for _, s := range []*mockScene{a, b, c, d} {
		require.NoError(t, st.Push(s))
		commit(t, st)
	}
	log = nil

	ended, err := st.PopToLevel(2)
	require.NoError(t, err)
	assert.False(t, ended)
	assert.Equal(t, 2, st.Depth())
	assert.Equal(t, b, st.Pending())

	// C sits between the running scene and the new top
	assert.Equal(t, []string{"C.Cleanup"}, log)
	assert.Equal(t, 0, d.cleanupCalled, "running scene waits for commit")

	commit(t, st)
	assert.Equal(t, []string{
		"C.Cleanup",
		"D.OnExitTransitionDidStart",
		"D.OnExit",
		"D.Cleanup",
		"B.OnEnter",
		"B.OnEnterTransitionDidFinish",
	}, log)
}

func TestStack_PopToLevelExitsRunningEntries(t *testing.T) {
	var log []string
	st := newStack()
	a, b, c := newMock("A", &log), newMock("B", &log), newMock("C", &log)
	for _, s := range []*mockScene{a, b, c} {
		require.NoError(t, st.Push(s))
		commit(t, st)
	}
	// B is still running underneath (e.g. an overlay)
	b.running = true

	_, err := st.PopToLevel(1)
	require.NoError(t, err)
	assert.Equal(t, 2, b.exitCalled, "B exited again while popping")
	assert.Equal(t, 1, b.cleanupCalled)
}

func TestStack_PopToLevelEdges(t *testing.T) {
	var log []string
	st := newStack()
	require.NoError(t, st.Push(newMock("A", &log)))
	commit(t, st)
	require.NoError(t, st.Push(newMock("B", &log)))
	commit(t, st)

	ended, err := st.PopToLevel(0)
	require.NoError(t, err)
	assert.True(t, ended, "level 0 ends the program")

	ended, err = st.PopToLevel(2)
	require.NoError(t, err)
	assert.False(t, ended)
	assert.Nil(t, st.Pending(), "current depth is a no-op")

	_, err = st.PopToLevel(5)
	require.NoError(t, err)
	assert.Equal(t, 2, st.Depth())
}

func TestStack_IncomingTransitionSuppressesExit(t *testing.T) {
	var log []string
	st := newStack()
	a, tr := newMock("A", &log), newTransitionMock("T", &log)
	require.NoError(t, st.Push(a))
	commit(t, st)
	log = nil

	require.NoError(t, st.Replace(tr))
	commit(t, st)

	assert.Equal(t, []string{"T.OnEnter", "T.OnEnterTransitionDidFinish"}, log,
		"outgoing hooks are left to the transition")
	assert.Equal(t, tr, st.Running())
}

func TestStack_OutgoingTransitionSuppressesEnter(t *testing.T) {
	var log []string
	st := newStack()
	tr, b := newTransitionMock("T", &log), newMock("B", &log)
	require.NoError(t, st.Push(tr))
	commit(t, st)
	log = nil

	require.NoError(t, st.Replace(b))
	commit(t, st)

	assert.Equal(t, []string{
		"T.OnExitTransitionDidStart",
		"T.OnExit",
		"T.Cleanup",
	}, log, "incoming hooks are left to the transition")
	assert.Equal(t, b, st.Running())
}

func TestStack_CommitSameSceneIsDropped(t *testing.T) {
	var log []string
	st := newStack()
	a, b := newMock("A", &log), newMock("B", &log)
	require.NoError(t, st.Push(a))
	commit(t, st)
	require.NoError(t, st.Push(b))

	// B is popped before it was ever committed: A becomes pending again
	_, err := st.Pop()
	require.NoError(t, err)
	log = nil

	assert.False(t, commit(t, st))
	assert.Empty(t, log)
	assert.Nil(t, st.Pending())
	assert.Equal(t, a, st.Running())
}

func TestStack_Reset(t *testing.T) {
	var log []string
	st := newStack()
	a, b := newMock("A", &log), newMock("B", &log)
	require.NoError(t, st.Push(a))
	commit(t, st)
	require.NoError(t, st.Push(b))
	commit(t, st)
	log = nil

	st.Reset()
	assert.Equal(t, []string{"B.OnExit", "B.Cleanup"}, log)
	assert.Nil(t, st.Running())
	assert.Nil(t, st.Pending())
	assert.Equal(t, 0, st.Depth())
	assert.Nil(t, st.Top())
}

func TestStack_DepthMatchesNetPushes(t *testing.T) {
	var log []string
	ops := []struct {
		name string
		op   func(st *Stack) error
	}{
		{"push", func(st *Stack) error { return st.Push(newMock("P", &log)) }},
		{"replace", func(st *Stack) error { return st.Replace(newMock("R", &log)) }},
		{"pop", func(st *Stack) error { _, err := st.Pop(); return err }},
	}

	st := newStack()
	require.NoError(t, st.Push(newMock("root", &log)))
	commit(t, st)
	expected := 1

	sequence := []int{0, 0, 1, 2, 0, 1, 2, 2}
	for _, i := range sequence {
		require.NoError(t, ops[i].op(st), ops[i].name)
		commit(t, st)
		switch ops[i].name {
		case "push":
			expected++
		case "pop":
			expected--
		}
		assert.Equal(t, expected, st.Depth(), "after %s", ops[i].name)
	}
}

func TestStack_ScenesCopy(t *testing.T) {
	var log []string
	st := newStack()
	a := newMock("A", &log)
	require.NoError(t, st.Push(a))

	scenes := st.Scenes()
	scenes[0] = nil
	assert.Equal(t, a, st.Top())
}
