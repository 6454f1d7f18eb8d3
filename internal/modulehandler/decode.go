package modulehandler

import (
	"encoding/binary"
	"fmt"
)

// Decoding helpers for the large-config-access replies. The wire shape for
// each reply is a flat little-endian encoding: fixed fields in struct
// order, and a uint32 count + elements for each variable-length
// collection, mirroring the repeated fixed-record pattern the original
// driver uses for module entries and pipeline lists.

func readU32(buf []byte, off int) (uint32, int) {
	return binary.LittleEndian.Uint32(buf[off : off+4]), off + 4
}

func readU16(buf []byte, off int) (uint16, int) {
	return binary.LittleEndian.Uint16(buf[off : off+2]), off + 2
}

func readString(buf []byte, off int) (string, int) {
	n, off := readU32(buf, off)
	s := string(buf[off : off+int(n)])
	return s, off + int(n)
}

func readU32Array(buf []byte, off int) ([]uint32, int) {
	n, off := readU32(buf, off)
	out := make([]uint32, n)
	for i := range out {
		out[i], off = readU32(buf, off)
	}
	return out, off
}

func decodeU32Array(payload []byte) []uint32 {
	if len(payload) < 4 {
		return nil
	}
	arr, _ := readU32Array(payload, 0)
	return arr
}

func decodeModuleEntries(payload []byte) ([]ModuleEntry, error) {
	if len(payload) < 4 {
		return nil, fmt.Errorf("modulehandler: module entries reply too short")
	}
	count, off := readU32(payload, 0)
	entries := make([]ModuleEntry, count)
	for i := range entries {
		var e ModuleEntry
		e.ModuleID, off = readU16(payload, off)
		e.Name, off = readString(payload, off)
		copy(e.UUID[:], payload[off:off+16])
		off += 16
		e.StateFlags, off = readU32(payload, off)
		e.Type, off = readU32(payload, off)
		copy(e.Hash[:], payload[off:off+20])
		off += 20
		e.EntryPoint, off = readU32(payload, off)
		e.CfgOffset, off = readU32(payload, off)
		e.CfgCount, off = readU32(payload, off)
		e.AffinityMask, off = readU32(payload, off)
		e.InstanceMaxCount, off = readU16(payload, off)
		e.InstanceStackSize, off = readU32(payload, off)
		entries[i] = e
	}
	return entries, nil
}

func decodeFwConfig(payload []byte) (FwConfig, error) {
	if len(payload) < 4 {
		return FwConfig{}, fmt.Errorf("modulehandler: fw config reply too short")
	}
	var c FwConfig
	off := 0
	c.FwVersion, off = readString(payload, off)
	var reclaimed uint32
	reclaimed, off = readU32(payload, off)
	c.MemoryReclaimed = reclaimed != 0
	c.SlowClockFreqHz, off = readU32(payload, off)
	c.FastClockFreqHz, off = readU32(payload, off)
	c.DmaBufferConfig, off = readU32Array(payload, off)
	c.AllocFlags, off = readU32(payload, off)
	c.GatewayCount, off = readU32(payload, off)
	c.ModulesCount, off = readU32(payload, off)
	c.MaxPplCount, off = readU32(payload, off)
	c.MaxAstateCount, off = readU32(payload, off)
	c.MaxModuleInstances, off = readU32(payload, off)
	c.MaxMcpsCount, _ = readU32(payload, off)
	return c, nil
}

func decodeHwConfig(payload []byte) (HwConfig, error) {
	if len(payload) < 4*7 {
		return HwConfig{}, fmt.Errorf("modulehandler: hw config reply too short")
	}
	var c HwConfig
	off := 0
	c.CAvsVersion, off = readU32(payload, off)
	c.DspCoreCount, off = readU32(payload, off)
	c.MemPageSizeBytes, off = readU32(payload, off)
	c.TotalPhysMemPages, off = readU32(payload, off)
	c.I2sCapsVersion, off = readU32(payload, off)
	c.GatewayCount, off = readU32(payload, off)
	c.EbbCount, _ = readU32(payload, off)
	return c, nil
}

func decodePplProps(payload []byte) (PplProps, error) {
	if len(payload) < 4 {
		return PplProps{}, fmt.Errorf("modulehandler: pipeline props reply too short")
	}
	var p PplProps
	off := 0
	p.ID, off = readU32(payload, off)
	p.Priority, off = readU32(payload, off)
	p.TotalMemoryBytes, off = readU32(payload, off)
	p.UsedMemoryBytes, off = readU32(payload, off)
	p.ContextPages, off = readU32(payload, off)
	p.DPTasks, off = readU32Array(payload, off)
	p.LLTasks, off = readU32Array(payload, off)
	p.ModuleInstances, _ = readU32Array(payload, off)
	return p, nil
}

func decodeTaskProps(payload []byte, off int) (TaskProps, int) {
	var t TaskProps
	t.TaskID, off = readU32(payload, off)
	t.ModuleInstanceIDs, off = readU32Array(payload, off)
	return t, off
}

func decodeSchedulerProps(payload []byte, off int) (SchedulerProps, int) {
	var s SchedulerProps
	s.CoreID, off = readU32(payload, off)
	s.ProcessingDomain, off = readU32(payload, off)
	n, off2 := readU32(payload, off)
	off = off2
	s.Tasks = make([]TaskProps, n)
	for i := range s.Tasks {
		s.Tasks[i], off = decodeTaskProps(payload, off)
	}
	return s, off
}

func decodeSchedulersInfo(core uint32, payload []byte) (SchedulersInfo, error) {
	if len(payload) < 4 {
		return SchedulersInfo{}, fmt.Errorf("modulehandler: schedulers info reply too short")
	}
	n, off := readU32(payload, 0)
	info := SchedulersInfo{CoreIndex: core, Schedulers: make([]SchedulerProps, n)}
	for i := range info.Schedulers {
		info.Schedulers[i], off = decodeSchedulerProps(payload, off)
	}
	return info, nil
}

func decodeGateways(payload []byte) ([]GatewayProps, error) {
	if len(payload) < 4 {
		return nil, fmt.Errorf("modulehandler: gateways reply too short")
	}
	count, off := readU32(payload, 0)
	gateways := make([]GatewayProps, count)
	for i := range gateways {
		var g GatewayProps
		g.TypeIndex, off = readU32(payload, off)
		g.TypeName, off = readString(payload, off)
		g.InstanceID, off = readU32(payload, off)
		g.Attribs, off = readU32(payload, off)
		gateways[i] = g
	}
	return gateways, nil
}
