package modulehandler

import (
	"encoding/binary"
	"testing"
)

// Test-only encoders mirroring decode.go's wire shape, used to build
// synthetic replies for round-trip tests without a real driver.

func appendU32(buf []byte, v uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}

func appendU16(buf []byte, v uint16) []byte {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	return append(buf, tmp[:]...)
}

func appendString(buf []byte, s string) []byte {
	buf = appendU32(buf, uint32(len(s)))
	return append(buf, []byte(s)...)
}

func appendU32Array(buf []byte, arr []uint32) []byte {
	buf = appendU32(buf, uint32(len(arr)))
	for _, v := range arr {
		buf = appendU32(buf, v)
	}
	return buf
}

func encodeModuleEntriesForTest(t *testing.T, entries []ModuleEntry) []byte {
	t.Helper()
	buf := appendU32(nil, uint32(len(entries)))
	for _, e := range entries {
		buf = appendU16(buf, e.ModuleID)
		buf = appendString(buf, e.Name)
		buf = append(buf, e.UUID[:]...)
		buf = appendU32(buf, e.StateFlags)
		buf = appendU32(buf, e.Type)
		buf = append(buf, e.Hash[:]...)
		buf = appendU32(buf, e.EntryPoint)
		buf = appendU32(buf, e.CfgOffset)
		buf = appendU32(buf, e.CfgCount)
		buf = appendU32(buf, e.AffinityMask)
		buf = appendU16(buf, e.InstanceMaxCount)
		buf = appendU32(buf, e.InstanceStackSize)
	}
	return buf
}

func encodeGatewaysForTest(t *testing.T, gateways []GatewayProps) []byte {
	t.Helper()
	buf := appendU32(nil, uint32(len(gateways)))
	for _, g := range gateways {
		buf = appendU32(buf, g.TypeIndex)
		buf = appendString(buf, g.TypeName)
		buf = appendU32(buf, g.InstanceID)
		buf = appendU32(buf, g.Attribs)
	}
	return buf
}

func encodeSchedulersInfoForTest(t *testing.T, schedulers []SchedulerProps) []byte {
	t.Helper()
	buf := appendU32(nil, uint32(len(schedulers)))
	for _, s := range schedulers {
		buf = appendU32(buf, s.CoreID)
		buf = appendU32(buf, s.ProcessingDomain)
		buf = appendU32(buf, uint32(len(s.Tasks)))
		for _, task := range s.Tasks {
			buf = appendU32(buf, task.TaskID)
			buf = appendU32Array(buf, task.ModuleInstanceIDs)
		}
	}
	return buf
}
