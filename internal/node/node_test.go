package node

import (
	"testing"

	"github.com/RayMarquina/dbt-project-sub004/internal/nodeid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	n := New(KindModel, "jaffle_shop", "orders")

	assert.Equal(t, "model.jaffle_shop.orders", n.ID())
	assert.Equal(t, "jaffle_shop.orders", n.FQN().String())
	assert.Equal(t, "orders", n.Name())
	assert.Equal(t, "jaffle_shop", n.Package())
	assert.Equal(t, KindModel, n.Kind())
	assert.True(t, n.Blocking())
	assert.False(t, n.Ephemeral())
}

func TestNew_Options(t *testing.T) {
	tags := []string{"nightly"}
	meta := map[string]any{"owner": "data"}
	n := New(KindModel, "shop", "orders",
		WithFQN(nodeid.New("shop", "marts", "orders")),
		WithPath("models/marts/orders.sql"),
		WithTags(tags...),
		WithCommand("echo build"),
		WithMeta(meta),
	)

	assert.Equal(t, "shop.marts.orders", n.FQN().String())
	assert.Equal(t, "models/marts/orders.sql", n.Path())
	assert.Equal(t, "echo build", n.Command())
	assert.Equal(t, []string{"nightly"}, n.Tags())
	assert.Equal(t, map[string]any{"owner": "data"}, n.Meta())
}

func TestNode_AttributesCannotBeChangedAfterNew(t *testing.T) {
	tags := []string{"nightly"}
	meta := map[string]any{"owner": "data"}
	n := New(KindModel, "p", "m", WithTags(tags...), WithMeta(meta))

	// Neither the caller's inputs nor returned copies alias node state.
	tags[0] = "hourly"
	meta["owner"] = "ops"
	n.Tags()[0] = "weekly"
	n.Meta()["owner"] = "finance"

	assert.True(t, n.HasTag("nightly"))
	assert.Equal(t, []string{"nightly"}, n.Tags())
	assert.Equal(t, "data", n.Meta()["owner"])
}

func TestEphemeral(t *testing.T) {
	m := New(KindModel, "p", "e", WithMaterialized(MaterializedEphemeral))
	assert.True(t, m.Ephemeral())
	assert.False(t, m.Blocking())

	// Only models can be ephemeral.
	s := New(KindSeed, "p", "s", WithMaterialized(MaterializedEphemeral))
	assert.False(t, s.Ephemeral())
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	_, err := ParseKind("source")
	assert.ErrorContains(t, err, "unknown resource type")
	assert.Equal(t, "kind(42)", Kind(42).String())
}

func TestDetails_CapabilityChecks(t *testing.T) {
	test := New(KindTest, "p", "not_null", WithTestConfig(TestConfig{}))
	cfg, ok := test.TestConfig()
	require.True(t, ok)
	assert.Equal(t, SeverityError, cfg.Severity)

	_, ok = test.SnapshotConfig()
	assert.False(t, ok)

	model := New(KindModel, "p", "m", WithTestConfig(TestConfig{Severity: SeverityWarn}))
	_, ok = model.TestConfig()
	assert.False(t, ok, "non-test nodes must not carry test settings")

	snap := New(KindSnapshot, "p", "s", WithSnapshotConfig(SnapshotConfig{Strategy: "timestamp"}))
	sc, ok := snap.SnapshotConfig()
	require.True(t, ok)
	assert.Equal(t, "timestamp", sc.Strategy)
}

func TestHasTag(t *testing.T) {
	n := New(KindModel, "p", "m", WithTags("nightly", "finance"))
	assert.True(t, n.HasTag("nightly"))
	assert.False(t, n.HasTag("hourly"))
}
