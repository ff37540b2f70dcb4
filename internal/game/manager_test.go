package game

import (
	"errors"
	"testing"
)

func TestNewRoomManager(t *testing.T) {
	rm := NewRoomManager()
	if rm.rooms == nil {
		t.Fatal("rooms map should be initialized")
	}
	if code, room := rm.Active(); code != "" || room != nil {
		t.Fatal("active room should be empty initially")
	}
}

func TestCreateSession(t *testing.T) {
	rm := NewRoomManager()
	code, teacherToken, err := rm.CreateSession(SessionConfig{Module: 2, TotalQuestions: 3})
	if err != nil {
		t.Fatalf("should be able to create session: %v", err)
	}
	if code == "" || len(code) != 5 {
		t.Fatalf("unexpected session code %q", code)
	}
	if teacherToken == "" {
		t.Fatal("teacher token should not be empty")
	}

	room, err := rm.Get(code)
	if err != nil {
		t.Fatalf("should be able to retrieve created session: %v", err)
	}
	if room.Code != code || room.TeacherToken != teacherToken {
		t.Fatalf("unexpected room %+v", room)
	}
	snap := room.Snapshot()
	if snap.Phase != PhaseIntro || snap.Level != 3 || snap.TotalQuestions != 3 {
		t.Fatalf("unexpected initial snapshot %+v", snap)
	}
	if active, _ := rm.Active(); active != code {
		t.Fatalf("expected active %s, got %s", code, active)
	}
}

func TestCreateSessionRejectsUnknownLevel(t *testing.T) {
	rm := NewRoomManager()
	if _, _, err := rm.CreateSession(SessionConfig{Level: 12}); !errors.Is(err, ErrUnknownLevel) {
		t.Fatalf("expected ErrUnknownLevel, got %v", err)
	}
	if code, _ := rm.Active(); code != "" {
		t.Fatal("failed creation should not become active")
	}
}

func TestGetUnknownSession(t *testing.T) {
	rm := NewRoomManager()
	if _, err := rm.Get("NOPE1"); err != ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestJoinAndAuthorize(t *testing.T) {
	rm := NewRoomManager()
	code, teacherToken, err := rm.CreateSession(SessionConfig{})
	if err != nil {
		t.Fatalf("should be able to create session: %v", err)
	}
	room, _ := rm.Get(code)

	id1, tok1 := room.Join("Alice")
	id2, tok2 := room.Join("Bob")
	if id1 == "" || tok1 == "" || id1 == id2 || tok1 == tok2 {
		t.Fatal("learners need distinct non-empty ids and tokens")
	}
	if len(room.Learners()) != 2 {
		t.Fatalf("expected 2 learners, got %d", len(room.Learners()))
	}
	if room.LearnerIDByToken(tok2) != id2 {
		t.Fatal("token should resolve to its learner")
	}

	if role, err := room.Authorize(teacherToken); err != nil || role != RoleTeacher {
		t.Fatalf("teacher token: %s, %v", role, err)
	}
	if role, err := room.Authorize(tok1); err != nil || role != RoleLearner {
		t.Fatalf("learner token: %s, %v", role, err)
	}
	for _, bad := range []string{"", "invalid-token"} {
		if _, err := room.Authorize(bad); err != ErrUnauthorized {
			t.Fatalf("token %q: expected ErrUnauthorized, got %v", bad, err)
		}
	}
}

func TestCloseRoom(t *testing.T) {
	rm := NewRoomManager()
	code, _, _ := rm.CreateSession(SessionConfig{})
	rm.Close(code)
	if _, err := rm.Get(code); err != ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound after close, got %v", err)
	}
	if active, _ := rm.Active(); active != "" {
		t.Fatal("closing the active room should clear it")
	}
}

func TestRoomDrivesSession(t *testing.T) {
	rm := NewRoomManager()
	rm.newGen = func(SessionConfig) RoundSource {
		return fixedRounds{{RedCount: 2, BlueCount: 2, Mode: ModeAddition}}
	}
	code, _, _ := rm.CreateSession(SessionConfig{Level: 1, TotalQuestions: 1})
	room, _ := rm.Get(code)

	must(t)(room.Start())
	must(t)(room.SubmitRedCount("2"))
	must(t)(room.SubmitBlueCount("2"))
	u := must(t)(room.SubmitTotal("4"))
	if u.State.Phase != PhaseVerify || u.State.Score != 1 {
		t.Fatalf("unexpected state %+v", u.State)
	}
	u = must(t)(room.Continue())
	if u.State.Phase != PhaseResult {
		t.Fatalf("expected result, got %s", u.State.Phase)
	}
}
