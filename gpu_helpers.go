package gekko

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"reflect"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

func wgpuWrapMode(mode string) (wgpu.AddressMode, error) {
	switch strings.ToLower(mode) {
	case "", "wrap":
		return wgpu.AddressModeRepeat, nil
	case "mirror":
		return wgpu.AddressModeMirrorRepeat, nil
	case "clamp":
		return wgpu.AddressModeClampToEdge, nil
	default:
		return 0, fmt.Errorf("unknown wrap mode: %s", mode)
	}
}

func wgpuFilterMode(mode string) (wgpu.FilterMode, error) {
	switch strings.ToLower(mode) {
	case "", "linear":
		return wgpu.FilterModeLinear, nil
	case "nearest":
		return wgpu.FilterModeNearest, nil
	default:
		return 0, fmt.Errorf("unknown filter mode: %s", mode)
	}
}

func toBufferBytes(data any) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := readUniformsBytes(reflect.ValueOf(data), buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// readUniformsBytes writes the value little-endian in field order. Structs and
// arrays are walked recursively, so mgl32 vectors and matrices encode as their
// float32 components.
func readUniformsBytes(field reflect.Value, buf *bytes.Buffer) error {
	if field.Kind() == reflect.Ptr {
		if field.IsNil() {
			return fmt.Errorf("nil pointer in uniform data")
		}
		field = field.Elem()
	}

	switch field.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < field.Len(); i++ {
			if err := readUniformsBytes(field.Index(i), buf); err != nil {
				return err
			}
		}

	case reflect.Struct:
		for i := 0; i < field.NumField(); i++ {
			if err := readUniformsBytes(field.Field(i), buf); err != nil {
				return err
			}
		}

	case reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Int8, reflect.Int16, reflect.Int32,
		reflect.Float32:
		if err := binary.Write(buf, binary.LittleEndian, field.Interface()); err != nil {
			return fmt.Errorf("failed to write scalar field: %w", err)
		}

	default:
		return fmt.Errorf("unsupported uniform type: %v", field.Type())
	}
	return nil
}

func wgpuBytesPerPixel(format TextureFormat) (uint32, error) {
	switch wgpu.TextureFormat(format) {
	case wgpu.TextureFormatR8Unorm, wgpu.TextureFormatR8Uint:
		return 1, nil
	case wgpu.TextureFormatRGBA8Unorm, wgpu.TextureFormatRGBA8UnormSrgb, wgpu.TextureFormatRGBA8Uint,
		wgpu.TextureFormatBGRA8Unorm, wgpu.TextureFormatBGRA8UnormSrgb:
		return 4, nil
	case wgpu.TextureFormatRGBA16Float:
		return 8, nil
	case wgpu.TextureFormatRGBA32Float:
		return 16, nil
	}
	return 0, fmt.Errorf("unsupported texture format: %d", format)
}
