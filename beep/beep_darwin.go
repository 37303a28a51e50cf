//go:build darwin

package beep

import (
	"sync"
	"sync/atomic"

	"github.com/gen2brain/malgo"
)

var (
	audioCtx   *malgo.AllocatedContext
	device     *malgo.Device
	deviceOnce sync.Once

	// playback cursor, shared with the device data callback
	current atomic.Pointer[[]byte]
	cursor  atomic.Uint32
	playMu  sync.Mutex
)

func initPlayback() {
	var err error
	audioCtx, err = malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return
	}
	if err := openDevice(); err != nil {
		audioCtx.Uninit()
		audioCtx = nil
	}
}

func openDevice() error {
	config := malgo.DefaultDeviceConfig(malgo.Playback)
	config.Playback.Format = malgo.FormatS16
	config.Playback.Channels = 1
	config.SampleRate = sampleRate

	var err error
	device, err = malgo.InitDevice(audioCtx.Context, config, malgo.DeviceCallbacks{Data: feed})
	return err
}

func feed(out, _ []byte, frameCount uint32) {
	samples := current.Load()
	if samples == nil || len(*samples) == 0 {
		zero(out)
		return
	}

	pos := cursor.Load()
	remaining := uint32(len(*samples)) - pos
	if remaining == 0 {
		current.Store(nil)
		zero(out)
		return
	}

	want := frameCount * 2 // mono S16, two bytes per frame
	if want > remaining {
		want = remaining
	}
	copy(out[:want], (*samples)[pos:pos+want])
	cursor.Store(pos + want)
	zero(out[want:])
}

func zero(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
}

func emit(samples []int16) {
	deviceOnce.Do(initPlayback)
	if audioCtx == nil || len(samples) == 0 {
		return
	}

	buf := make([]byte, len(samples)*2)
	for i, s := range samples {
		buf[i*2] = byte(s)
		buf[i*2+1] = byte(s >> 8)
	}

	playMu.Lock()
	defer playMu.Unlock()
	if device == nil {
		return
	}

	device.Stop()
	cursor.Store(0)
	current.Store(&buf)

	if err := device.Start(); err != nil {
		// A stale handle after sleep/wake; recreate and retry once.
		device.Uninit()
		if err := openDevice(); err != nil {
			current.Store(nil)
			return
		}
		if err := device.Start(); err != nil {
			current.Store(nil)
		}
	}
}
