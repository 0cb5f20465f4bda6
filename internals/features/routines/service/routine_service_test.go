package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nothotgamer/hostelixpro/internals/constants"
	"github.com/nothotgamer/hostelixpro/internals/features/routines/model"
	"github.com/nothotgamer/hostelixpro/internals/helpers/apperr"
	helperAuth "github.com/nothotgamer/hostelixpro/internals/helpers/auth"
)

var (
	manager = helperAuth.Actor{UserID: uuid.New(), Role: constants.RoleRoutineManager}
	admin   = helperAuth.Actor{UserID: uuid.New(), Role: constants.RoleAdmin}
)

func studentActor(userID uuid.UUID) helperAuth.Actor {
	return helperAuth.Actor{UserID: userID, Role: constants.RoleStudent}
}

func newRoutines(t *testing.T) (*RoutineService, *memRoutines) {
	t.Helper()
	store := newMemRoutines()
	return NewRoutineService(store, stepClock(1_700_000_000_000)), store
}

func walk() CreateRoutineInput { return CreateRoutineInput{Type: model.RoutineWalk} }

func exit(payload string) CreateRoutineInput {
	return CreateRoutineInput{Type: model.RoutineExit, Payload: []byte(payload)}
}

func TestWalkApprovalCompletesDirectly(t *testing.T) {
	ctx := context.Background()
	svc, store := newRoutines(t)
	st := store.addStudent()
	me := studentActor(st.StudentUserID)

	r, err := svc.CreateRequest(ctx, me, walk())
	require.NoError(t, err)
	assert.Equal(t, model.RoutinePendingManager, r.RoutineStatus)
	assert.Equal(t, st.StudentID, r.RoutineStudentID)

	// second request while still pending
	_, err = svc.CreateRequest(ctx, me, walk())
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "pending walk request")

	r, err = svc.ApproveRequest(ctx, manager, r.RoutineID, "")
	require.NoError(t, err)
	assert.Equal(t, model.RoutineCompleted, r.RoutineStatus)
	require.NotNil(t, r.RoutineReviewedByUserID)
	assert.Equal(t, manager.UserID, *r.RoutineReviewedByUserID)
	assert.Nil(t, r.RoutineManagerNotes)

	// completed walk frees the slot
	_, err = svc.CreateRequest(ctx, me, walk())
	assert.NoError(t, err)
}

func TestExitRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, store := newRoutines(t)
	st := store.addStudent()
	me := studentActor(st.StudentUserID)

	r, err := svc.CreateRequest(ctx, me, exit(`{"reason":"clinic","expected_return_time":1700003600000,"companions":[" Bilal ",""],"destination":"City clinic"}`))
	require.NoError(t, err)
	require.NotNil(t, r.RoutineExpectedReturnTime)
	assert.Equal(t, int64(1700003600000), *r.RoutineExpectedReturnTime)
	assert.Equal(t, []string{"Bilal"}, []string(r.RoutineCompanions))
	require.NotNil(t, r.RoutineDestination)
	assert.Equal(t, "City clinic", *r.RoutineDestination)

	r, err = svc.ApproveRequest(ctx, manager, r.RoutineID, "  back by 6  ")
	require.NoError(t, err)
	assert.Equal(t, model.RoutineApprovedPendingReturn, r.RoutineStatus)
	require.NotNil(t, r.RoutineManagerNotes)
	assert.Equal(t, "back by 6", *r.RoutineManagerNotes)

	// out: new request blocked with the "currently out" message
	_, err = svc.CreateRequest(ctx, me, walk())
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "currently out on exit")

	r, err = svc.RequestReturn(ctx, me, r.RoutineID)
	require.NoError(t, err)
	assert.Equal(t, model.RoutinePendingReturnApproval, r.RoutineStatus)
	require.NotNil(t, r.RoutineActualReturnTime)

	r, err = svc.ConfirmReturn(ctx, manager, r.RoutineID, "")
	require.NoError(t, err)
	assert.Equal(t, model.RoutineCompleted, r.RoutineStatus)
	assert.Equal(t, 0, store.activeCount(st.StudentID))
}

func TestExitCannotSkipSteps(t *testing.T) {
	ctx := context.Background()
	svc, store := newRoutines(t)
	st := store.addStudent()
	me := studentActor(st.StudentUserID)

	r, err := svc.CreateRequest(ctx, me, exit(""))
	require.NoError(t, err)

	_, err = svc.ConfirmReturn(ctx, manager, r.RoutineID, "")
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))

	_, err = svc.RequestReturn(ctx, me, r.RoutineID)
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))

	assert.Equal(t, model.RoutinePendingManager, store.routines[r.RoutineID].RoutineStatus)
}

func TestRequestReturnOwnership(t *testing.T) {
	ctx := context.Background()
	svc, store := newRoutines(t)
	owner := store.addStudent()
	other := store.addStudent()

	r, err := svc.CreateRequest(ctx, studentActor(owner.StudentUserID), exit(""))
	require.NoError(t, err)
	_, err = svc.ApproveRequest(ctx, admin, r.RoutineID, "")
	require.NoError(t, err)

	_, err = svc.RequestReturn(ctx, studentActor(other.StudentUserID), r.RoutineID)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))

	// user tanpa profil student
	_, err = svc.RequestReturn(ctx, studentActor(uuid.New()), r.RoutineID)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestRejectBranches(t *testing.T) {
	ctx := context.Background()
	svc, store := newRoutines(t)
	st := store.addStudent()
	me := studentActor(st.StudentUserID)

	r, err := svc.CreateRequest(ctx, me, exit(""))
	require.NoError(t, err)

	_, err = svc.RejectRequest(ctx, manager, r.RoutineID, "   ")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	r, err = svc.RejectRequest(ctx, manager, r.RoutineID, "no guardian consent")
	require.NoError(t, err)
	assert.Equal(t, model.RoutineRejected, r.RoutineStatus)
	require.NotNil(t, r.RoutineRejectionReason)
	assert.Equal(t, "no guardian consent", *r.RoutineRejectionReason)

	// terminal
	_, err = svc.RejectRequest(ctx, manager, r.RoutineID, "again")
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))
	_, err = svc.ApproveRequest(ctx, manager, r.RoutineID, "")
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))

	// return rejection
	r2, err := svc.CreateRequest(ctx, me, exit(""))
	require.NoError(t, err)
	_, err = svc.ApproveRequest(ctx, manager, r2.RoutineID, "")
	require.NoError(t, err)

	// APPROVED_PENDING_RETURN is not rejectable
	_, err = svc.RejectRequest(ctx, manager, r2.RoutineID, "late")
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))

	_, err = svc.RequestReturn(ctx, me, r2.RoutineID)
	require.NoError(t, err)
	r2, err = svc.RejectRequest(ctx, manager, r2.RoutineID, "not seen at gate")
	require.NoError(t, err)
	assert.Equal(t, model.RoutineReturnRejected, r2.RoutineStatus)
	assert.Equal(t, 0, store.activeCount(st.StudentID))
}

func TestRoleGates(t *testing.T) {
	ctx := context.Background()
	svc, store := newRoutines(t)
	st := store.addStudent()
	me := studentActor(st.StudentUserID)
	teacher := helperAuth.Actor{UserID: uuid.New(), Role: constants.RoleTeacher}

	_, err := svc.CreateRequest(ctx, manager, walk())
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))

	r, err := svc.CreateRequest(ctx, me, walk())
	require.NoError(t, err)

	_, err = svc.ApproveRequest(ctx, teacher, r.RoutineID, "")
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
	_, err = svc.ApproveRequest(ctx, me, r.RoutineID, "")
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
	_, err = svc.RejectRequest(ctx, teacher, r.RoutineID, "x")
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
	_, err = svc.RequestReturn(ctx, manager, r.RoutineID)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestCreateRequestValidation(t *testing.T) {
	ctx := context.Background()
	svc, store := newRoutines(t)
	st := store.addStudent()
	me := studentActor(st.StudentUserID)

	cases := map[string]CreateRoutineInput{
		"return type":   {Type: model.RoutineReturn},
		"unknown type":  {Type: "picnic"},
		"array payload": exit(`[1,2]`),
		"broken json":   exit(`{"a":`),
		"negative eta":  exit(`{"expected_return_time":-5}`),
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.CreateRequest(ctx, me, in)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		})
	}

	_, err := svc.CreateRequest(ctx, studentActor(uuid.New()), walk())
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestMissingRoutine(t *testing.T) {
	svc, _ := newRoutines(t)
	_, err := svc.ApproveRequest(context.Background(), manager, uuid.New(), "")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestFailedSaveLeavesRoutineUntouched(t *testing.T) {
	ctx := context.Background()
	svc, store := newRoutines(t)
	st := store.addStudent()

	r, err := svc.CreateRequest(ctx, studentActor(st.StudentUserID), exit(""))
	require.NoError(t, err)

	store.failSave = true
	_, err = svc.ApproveRequest(ctx, manager, r.RoutineID, "ok")
	require.ErrorIs(t, err, errInjected)
	assert.Equal(t, "", string(apperr.KindOf(err)))

	stored := store.routines[r.RoutineID]
	assert.Equal(t, model.RoutinePendingManager, stored.RoutineStatus)
	assert.Nil(t, stored.RoutineManagerNotes)
}

func TestConcurrentCreateKeepsSingleActive(t *testing.T) {
	ctx := context.Background()
	svc, store := newRoutines(t)
	st := store.addStudent()
	me := studentActor(st.StudentUserID)

	const n = 16
	var wg sync.WaitGroup
	var mu sync.Mutex
	ok, conflicts := 0, 0
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			in := walk()
			if i%2 == 0 {
				in = exit("")
			}
			_, err := svc.CreateRequest(ctx, me, in)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if apperr.KindOf(err) == apperr.KindConflict {
				conflicts++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, conflicts)
	assert.Equal(t, 1, store.activeCount(st.StudentID))
}

func TestConcurrentApproveRejectSingleWinner(t *testing.T) {
	ctx := context.Background()
	svc, store := newRoutines(t)
	st := store.addStudent()

	r, err := svc.CreateRequest(ctx, studentActor(st.StudentUserID), exit(""))
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(2)
	go func() { defer wg.Done(); _, errs[0] = svc.ApproveRequest(ctx, manager, r.RoutineID, "") }()
	go func() { defer wg.Done(); _, errs[1] = svc.RejectRequest(ctx, admin, r.RoutineID, "no") }()
	wg.Wait()

	wins := 0
	for _, e := range errs {
		if e == nil {
			wins++
		} else {
			assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(e))
		}
	}
	assert.Equal(t, 1, wins)
}
