package metrics

import (
	"testing"

	"gotest.tools/v3/assert"
)

func Test_identityState_firstValueWins(t *testing.T) {
	t.Parallel()

	// SETUP
	examinee := &identityState{}
	examinee.set("service1", "instance1")

	// EXERCISE
	examinee.set("service2", "instance2")

	// VERIFY
	service, instance, isSet := examinee.get()
	assert.Assert(t, isSet)
	assert.Equal(t, service, "service1")
	assert.Equal(t, instance, "instance1")
}

func Test_identityState_emptyValuesGetDefaults(t *testing.T) {
	t.Parallel()

	// SETUP
	examinee := &identityState{}

	// EXERCISE
	examinee.set("", "")

	// VERIFY
	service, instance, isSet := examinee.get()
	assert.Assert(t, isSet)
	assert.Equal(t, service, serviceNameFallback)
	assert.Assert(t, instance != "")
}

func Test_defaultInstanceName_isNotEmpty(t *testing.T) {
	t.Parallel()

	// EXERCISE + VERIFY
	assert.Assert(t, defaultInstanceName() != "")
}
