package compute

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusString(t *testing.T) {
	assert.Equal(t, "CL_BUILD_PROGRAM_FAILURE", StatusBuildProgramFailure.String())
	assert.Equal(t, "CL_STATUS(-999)", Status(-999).String())
}

func TestErrorAndStatusOf(t *testing.T) {
	cause := errors.New("driver gone")
	err := &Error{Status: StatusOutOfResources, Op: "clFinish", Err: cause}
	assert.Equal(t, "clFinish: CL_OUT_OF_RESOURCES (-5): driver gone", err.Error())
	assert.ErrorIs(t, err, cause)

	wrapped := fmt.Errorf("run: %w", Errorf(StatusInvalidKernelName, "clCreateKernel", "no kernel named '%s'", "x"))
	assert.Equal(t, StatusInvalidKernelName, StatusOf(wrapped))
	assert.Contains(t, wrapped.Error(), "no kernel named 'x'")

	assert.Equal(t, StatusSuccess, StatusOf(nil))
	assert.Equal(t, StatusInvalidValue, StatusOf(cause))
}

func TestParseDeviceType(t *testing.T) {
	dt, err := ParseDeviceType("GPU")
	require.NoError(t, err)
	assert.Equal(t, DeviceTypeGPU, dt)
	_, err = ParseDeviceType("fpga")
	assert.Error(t, err)
	assert.Equal(t, "CPU", DeviceTypeCPU.String())
}

func TestParamKindAccepts(t *testing.T) {
	assert.True(t, ParamUint32.Accepts(uint32(1)))
	assert.False(t, ParamUint32.Accepts(1))
	assert.True(t, ParamInt32.Accepts(int32(-1)))
	assert.True(t, ParamLocalBuffer.Accepts(LocalMem(4)))
	assert.False(t, ParamLocalBuffer.Accepts(LocalMem(0)))
	assert.False(t, ParamGlobalBuffer.Accepts("buffer"))
}

type fakeBackend struct{}

func (fakeBackend) Name() string                              { return "fake" }
func (fakeBackend) CreateContext(DeviceType) (Context, error) { return nil, nil }

func TestRegistry(t *testing.T) {
	Register("fake", func() (Backend, error) { return fakeBackend{}, nil })
	assert.Contains(t, Names(), "fake")
	b, err := Open("fake")
	require.NoError(t, err)
	assert.Equal(t, "fake", b.Name())

	_, err = Open("missing")
	assert.ErrorIs(t, err, ErrNoBackend)
}
