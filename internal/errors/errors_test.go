package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorBuilder_Build(t *testing.T) {
	base := fmt.Errorf("index unreachable")

	ee := New(base).
		Component("roster").
		Category(CategoryRosterIndex).
		Context("url", "http://example.com/members.json").
		Build()

	assert.Equal(t, "index unreachable", ee.Error())
	assert.Equal(t, "roster", ee.GetComponent())
	assert.Equal(t, string(CategoryRosterIndex), ee.GetCategory())
	assert.Equal(t, "http://example.com/members.json", ee.GetContext()["url"])
	assert.ErrorIs(t, ee, base)
}

func TestErrorBuilder_Defaults(t *testing.T) {
	ee := Newf("boom").Build()

	assert.Equal(t, ComponentUnknown, ee.GetComponent())
	assert.Equal(t, string(CategoryGeneric), ee.GetCategory())
	assert.Nil(t, ee.GetContext())
	assert.False(t, ee.Timestamp.IsZero())
}

func TestEnhancedError_IsMatchesCategory(t *testing.T) {
	a := Newf("first").Category(CategoryPageFetch).Build()
	b := Newf("second").Category(CategoryPageFetch).Build()
	c := Newf("third").Category(CategoryNetwork).Build()

	assert.ErrorIs(t, a, b)
	assert.NotErrorIs(t, a, c)
}

func TestEnhancedError_ContextCopy(t *testing.T) {
	ee := Newf("x").Context("k", "v").Build()

	ctx := ee.GetContext()
	ctx["k"] = "mutated"

	assert.Equal(t, "v", ee.GetContext()["k"])
}

type captureReporter struct {
	got []*EnhancedError
}

func (c *captureReporter) ReportError(ee *EnhancedError) {
	c.got = append(c.got, ee)
}

func TestTelemetryReporter(t *testing.T) {
	rep := &captureReporter{}
	SetTelemetryReporter(rep)
	t.Cleanup(func() { SetTelemetryReporter(nil) })

	ee := Newf("stylesheet missing").
		Component("roster").
		Category(CategoryPageFetch).
		Build()

	require.Len(t, rep.got, 1)
	assert.Same(t, ee, rep.got[0])
	assert.True(t, ee.IsReported())
}

func TestTelemetryReporter_DisabledByDefault(t *testing.T) {
	SetTelemetryReporter(nil)

	ee := Newf("quiet").Build()
	assert.False(t, ee.IsReported())
}
