package modulehandler

import (
	"encoding/binary"
	"fmt"

	"github.com/intel/cavs-debug-agent/internal/agenterr"
	"github.com/intel/cavs-debug-agent/internal/driver"
	"github.com/intel/cavs-debug-agent/internal/wire"
)

// Parameter ids for the large-config-access requests this handler issues.
// These mirror the cAVS firmware's BaseFwParams/ModuleParams enumerations;
// only the subset the probe core and the topology views need is modeled.
const (
	paramModuleEntries    uint32 = 100
	paramFwConfig         uint32 = 101
	paramHwConfig         uint32 = 102
	paramPipelineIDs      uint32 = 103
	paramPipelineProps    uint32 = 104
	paramSchedulersInfo   uint32 = 105
	paramGateways         uint32 = 106
	paramModuleInstanceProps uint32 = 107
)

// cavsModuleHandlerIoctl is the single ioctl command number every
// large-config-access request is issued through; the parameter id inside
// the request body selects the operation, mirroring LargeConfigAccess in
// the original driver boundary.
const cavsModuleHandlerIoctl = 0xC9C9

// maxReplySize bounds how large a single large-config-access reply can be.
// Firmware topology replies are modest (at most a few hundred entries);
// this is generous headroom rather than a tight fit.
const maxReplySize = 64 * 1024

// Handler is the C9 typed RPC layer over a C10 Driver.
type Handler struct {
	drv driver.Driver
}

// New wraps drv with the module-handler typed operations.
func New(drv driver.Driver) *Handler {
	return &Handler{drv: drv}
}

// call issues one large-config-access request/reply round trip and returns
// the raw reply payload.
func (h *Handler) call(op string, paramID uint32, reqPayload []byte) ([]byte, error) {
	body := wire.EncodeLargeConfig(paramID, reqPayload)
	out := make([]byte, maxReplySize)
	if err := h.drv.IOControl(cavsModuleHandlerIoctl, body, out); err != nil {
		return nil, agenterr.Wrap(op, err)
	}
	_, payload, err := wire.DecodeLargeConfig(out)
	if err != nil {
		return nil, agenterr.New(op, agenterr.CodeFirmwareError, fmt.Sprintf("malformed reply: %v", err))
	}
	return payload, nil
}

// GetModuleInstanceProps resolves (module_id, instance_id) to the bit
// depth/channel count the probe core needs for sample_byte_size. This is
// the one operation the probe core depends on directly; it delegates to
// the driver's own typed helper rather than re-issuing the large-config
// round trip, since C10 already exposes it as a narrow typed call (the
// same pattern spec.md uses for get/set probe_state).
func (h *Handler) GetModuleInstanceProps(moduleID uint16, instanceID uint8) (ModuleInstanceProps, error) {
	props, err := h.drv.GetModuleInstanceProps(moduleID, instanceID)
	if err != nil {
		return ModuleInstanceProps{}, agenterr.Wrap("get_module_instance_props", err)
	}
	return ModuleInstanceProps{ValidBitDepth: props.ValidBitDepth, ChannelCount: props.ChannelCount}, nil
}

func (h *Handler) GetModuleEntries() ([]ModuleEntry, error) {
	payload, err := h.call("get_module_entries", paramModuleEntries, nil)
	if err != nil {
		return nil, err
	}
	return decodeModuleEntries(payload)
}

func (h *Handler) GetFwConfig() (FwConfig, error) {
	payload, err := h.call("get_fw_config", paramFwConfig, nil)
	if err != nil {
		return FwConfig{}, err
	}
	return decodeFwConfig(payload)
}

func (h *Handler) GetHwConfig() (HwConfig, error) {
	payload, err := h.call("get_hw_config", paramHwConfig, nil)
	if err != nil {
		return HwConfig{}, err
	}
	return decodeHwConfig(payload)
}

func (h *Handler) GetPipelineIDs() ([]uint32, error) {
	payload, err := h.call("get_pipeline_ids", paramPipelineIDs, nil)
	if err != nil {
		return nil, err
	}
	return decodeU32Array(payload), nil
}

func (h *Handler) GetPipelineProps(id uint32) (PplProps, error) {
	req := make([]byte, 4)
	binary.LittleEndian.PutUint32(req, id)
	payload, err := h.call("get_pipeline_props", paramPipelineProps, req)
	if err != nil {
		return PplProps{}, err
	}
	return decodePplProps(payload)
}

func (h *Handler) GetSchedulersInfo(core uint32) (SchedulersInfo, error) {
	req := make([]byte, 4)
	binary.LittleEndian.PutUint32(req, core)
	payload, err := h.call("get_schedulers_info", paramSchedulersInfo, req)
	if err != nil {
		return SchedulersInfo{}, err
	}
	return decodeSchedulersInfo(core, payload)
}

func (h *Handler) GetGateways() ([]GatewayProps, error) {
	payload, err := h.call("get_gateways", paramGateways, nil)
	if err != nil {
		return nil, err
	}
	return decodeGateways(payload)
}
