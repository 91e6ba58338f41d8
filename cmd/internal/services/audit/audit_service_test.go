package audit

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhukovvlad/procurement-go/cmd/internal/testutil"
	"github.com/zhukovvlad/procurement-go/cmd/pkg/logging"
)

func newTestService(t *testing.T) (*Service, *testutil.MemStore, *test.Hook) {
	t.Helper()
	base, hook := test.NewNullLogger()
	store := testutil.NewMemStore()
	return NewService(store, logging.NewLogger(logrus.NewEntry(base))), store, hook
}

func TestRecord_PersistsJSONDiff(t *testing.T) {
	// GIVEN: переход статуса заявки
	svc, store, _ := newTestService(t)

	// WHEN: записываем аудит
	svc.Record(context.Background(), Entry{
		ActorID:     7,
		Action:      ActionStatusChange,
		EntityType:  EntityDemand,
		EntityID:    42,
		Previous:    map[string]string{"status": "CADASTRADA"},
		New:         map[string]string{"status": "EM_ANALISE"},
		Description: "первая позиция",
	})

	// THEN: запись сохранена с JSON значениями
	logs := store.AuditLogs()
	require.Len(t, logs, 1)
	entry := logs[0]
	assert.Equal(t, int64(7), entry.ActorID.Int64)
	assert.True(t, entry.ActorID.Valid)
	assert.Equal(t, "status_change", entry.Action)
	assert.Equal(t, "demand", entry.EntityType)
	assert.Equal(t, int64(42), entry.EntityID)
	assert.Equal(t, "первая позиция", entry.Description.String)

	var prev map[string]string
	require.True(t, entry.PreviousValue.Valid)
	require.NoError(t, json.Unmarshal(entry.PreviousValue.RawMessage, &prev))
	assert.Equal(t, "CADASTRADA", prev["status"])
}

func TestRecord_SystemActorAndEmptyValues(t *testing.T) {
	svc, store, _ := newTestService(t)

	svc.Record(context.Background(), Entry{Action: ActionDelete, EntityType: EntityItem, EntityID: 1})

	logs := store.AuditLogs()
	require.Len(t, logs, 1)
	assert.False(t, logs[0].ActorID.Valid)
	assert.False(t, logs[0].PreviousValue.Valid)
	assert.False(t, logs[0].NewValue.Valid)
	assert.False(t, logs[0].Description.Valid)
}

func TestRecord_StoreFailureIsOnlyLogged(t *testing.T) {
	// GIVEN: хранилище, которое не может записать журнал
	svc, store, hook := newTestService(t)
	store.FailCreateAuditLog = errors.New("db is down")

	// WHEN / THEN: вызов не паникует и ничего не возвращает, ошибка в логе
	assert.NotPanics(t, func() {
		svc.Record(context.Background(), Entry{Action: ActionCreate, EntityType: EntityPrice, EntityID: 3})
	})

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Contains(t, hook.LastEntry().Message, "db is down")
}

func TestRecord_UnserializableValueIsDropped(t *testing.T) {
	svc, store, hook := newTestService(t)

	svc.Record(context.Background(), Entry{
		Action:     ActionUpdate,
		EntityType: EntityDemand,
		EntityID:   1,
		New:        map[string]any{"bad": make(chan int)},
	})

	logs := store.AuditLogs()
	require.Len(t, logs, 1)
	assert.False(t, logs[0].NewValue.Valid)

	warned := false
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			warned = true
		}
	}
	assert.True(t, warned)
}

func TestList_FiltersByEntity(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	svc.Record(ctx, Entry{Action: ActionCreate, EntityType: EntityDemand, EntityID: 1})
	svc.Record(ctx, Entry{Action: ActionUpdate, EntityType: EntityDemand, EntityID: 1})
	svc.Record(ctx, Entry{Action: ActionCreate, EntityType: EntityDemand, EntityID: 2})
	svc.Record(ctx, Entry{Action: ActionCreate, EntityType: EntityItem, EntityID: 1})

	logs, err := svc.List(ctx, EntityDemand, 1, 10, 0)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, ActionUpdate, logs[0].Action, "новые записи первыми")
}
