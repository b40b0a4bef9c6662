package compute

// Backend creates contexts on one compute runtime.
type Backend interface {
	Name() string
	// CreateContext resolves a context holding the devices of class t.
	// It fails with StatusDeviceNotFound when the runtime has none.
	CreateContext(t DeviceType) (Context, error)
}

// Context owns devices, buffers and programs of one device class.
type Context interface {
	Devices() []Device
	CreateQueue(d Device, props QueueProperties) (Queue, error)
	CreateProgram(source string) (Program, error)
	// CreateBuffer allocates len(host) int32 elements. With MemCopyHostPtr
	// the host contents are copied in at creation time.
	CreateBuffer(flags MemFlags, host []int32) (Buffer, error)
	Release()
}

// Device is one accelerator inside a context.
type Device interface {
	Info() DeviceInfo
}

// Program is kernel source compiled for a device list.
type Program interface {
	Build(devices []Device) error
	// BuildLog returns the diagnostics of the last Build for d.
	BuildLog(d Device) string
	CreateKernel(name string) (Kernel, error)
	Release()
}

// Kernel is one entry point of a built program with its bound arguments.
type Kernel interface {
	Name() string
	NumArgs() int
	SetArg(index int, value any) error
	Release()
}

// Buffer is device memory of int32 elements.
type Buffer interface {
	Len() int
	Release()
}

// Queue is an in-order command queue on one device.
type Queue interface {
	// EnqueueNDRange launches k over the global extents split into work
	// groups of the local extents.
	EnqueueNDRange(k Kernel, global, local []int) (Event, error)
	// EnqueueReadBuffer copies b into dst. A blocking read returns once the
	// data has landed.
	EnqueueReadBuffer(b Buffer, blocking bool, dst []int32) error
	// Finish blocks until every queued command has completed.
	Finish() error
	Release()
}

// Event tracks one queued command.
type Event interface {
	Wait() error
	// Profile returns the device start and end timestamps in nanoseconds.
	// It needs a queue created with QueueProfilingEnable and a completed
	// command.
	Profile() (start, end uint64, err error)
}
