package uvc

import "encoding/binary"

// StreamingControlSize is the wire size of struct uvc_streaming_control
// (spec.md 4.3's Probe/Commit control block).
const StreamingControlSize = 34

// StreamingControl mirrors struct uvc_streaming_control. All multi-byte
// fields are little-endian on the wire (spec.md 6).
type StreamingControl struct {
	Hint                   uint16
	FormatIndex            uint8
	FrameIndex             uint8
	FrameInterval          uint32
	KeyFrameRate           uint16
	PFrameRate             uint16
	CompQuality            uint16
	CompWindowSize         uint16
	Delay                  uint16
	MaxVideoFrameSize      uint32
	MaxPayloadTransferSize uint32
	ClockFrequency         uint32
	FramingInfo            uint8
	PreferedVersion        uint8
	MinVersion             uint8
	MaxVersion             uint8
}

// Marshal encodes sc into its 34-byte wire form.
func (sc StreamingControl) Marshal() []byte {
	b := make([]byte, StreamingControlSize)
	binary.LittleEndian.PutUint16(b[0:2], sc.Hint)
	b[2] = sc.FormatIndex
	b[3] = sc.FrameIndex
	binary.LittleEndian.PutUint32(b[4:8], sc.FrameInterval)
	binary.LittleEndian.PutUint16(b[8:10], sc.KeyFrameRate)
	binary.LittleEndian.PutUint16(b[10:12], sc.PFrameRate)
	binary.LittleEndian.PutUint16(b[12:14], sc.CompQuality)
	binary.LittleEndian.PutUint16(b[14:16], sc.CompWindowSize)
	binary.LittleEndian.PutUint16(b[16:18], sc.Delay)
	binary.LittleEndian.PutUint32(b[18:22], sc.MaxVideoFrameSize)
	binary.LittleEndian.PutUint32(b[22:26], sc.MaxPayloadTransferSize)
	binary.LittleEndian.PutUint32(b[26:30], sc.ClockFrequency)
	b[30] = sc.FramingInfo
	b[31] = sc.PreferedVersion
	b[32] = sc.MinVersion
	b[33] = sc.MaxVersion
	return b
}

// UnmarshalStreamingControl decodes a 34-byte wire buffer. Buffers shorter
// than StreamingControlSize are zero-extended, matching a host that sends
// a truncated SET_CUR (GET_LEN still reports the full 34).
func UnmarshalStreamingControl(b []byte) StreamingControl {
	var buf [StreamingControlSize]byte
	copy(buf[:], b)
	return StreamingControl{
		Hint:                   binary.LittleEndian.Uint16(buf[0:2]),
		FormatIndex:            buf[2],
		FrameIndex:             buf[3],
		FrameInterval:          binary.LittleEndian.Uint32(buf[4:8]),
		KeyFrameRate:           binary.LittleEndian.Uint16(buf[8:10]),
		PFrameRate:             binary.LittleEndian.Uint16(buf[10:12]),
		CompQuality:            binary.LittleEndian.Uint16(buf[12:14]),
		CompWindowSize:         binary.LittleEndian.Uint16(buf[14:16]),
		Delay:                  binary.LittleEndian.Uint16(buf[16:18]),
		MaxVideoFrameSize:      binary.LittleEndian.Uint32(buf[18:22]),
		MaxPayloadTransferSize: binary.LittleEndian.Uint32(buf[22:26]),
		ClockFrequency:         binary.LittleEndian.Uint32(buf[26:30]),
		FramingInfo:            buf[30],
		PreferedVersion:        buf[31],
		MinVersion:             buf[32],
		MaxVersion:             buf[33],
	}
}
