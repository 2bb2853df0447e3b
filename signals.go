package fieldset

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for fieldset events.
var (
	SignalRegistryDefined = capitan.NewSignal("fieldset.registry.defined", "Record registry built")
	SignalEncodeComplete  = capitan.NewSignal("fieldset.binary.encode", "Binary encode finished")
	SignalDecodeComplete  = capitan.NewSignal("fieldset.binary.decode", "Binary decode finished")
	SignalTextWrite       = capitan.NewSignal("fieldset.text.write", "Text document written")
	SignalTextRead        = capitan.NewSignal("fieldset.text.read", "Text document read")
	SignalExportComplete  = capitan.NewSignal("fieldset.export.complete", "Document export finished")
	SignalImportComplete  = capitan.NewSignal("fieldset.import.complete", "Document import finished")
)

// Keys for typed event data.
var (
	KeyTypeName    = capitan.NewStringKey("type_name")
	KeyContentType = capitan.NewStringKey("content_type")
	KeyFieldCount  = capitan.NewIntKey("field_count")
	KeySize        = capitan.NewIntKey("size")
	KeyDuration    = capitan.NewDurationKey("duration")
	KeyError       = capitan.NewErrorKey("error")
)

// emitRegistryDefined emits an event when a registry is built.
func emitRegistryDefined(ctx context.Context, typeName string, fieldCount int) {
	capitan.Emit(ctx, SignalRegistryDefined,
		KeyTypeName.Field(typeName),
		KeyFieldCount.Field(fieldCount),
	)
}

// completeFields builds the common payload of completion events.
func completeFields(typeName string, size int, duration time.Duration, err error) []capitan.Field {
	fields := []capitan.Field{
		KeyTypeName.Field(typeName),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
	}
	return fields
}

// emitEncodeComplete emits an event when a binary encode finishes.
func emitEncodeComplete(ctx context.Context, typeName string, size int, duration time.Duration, err error) {
	fields := completeFields(typeName, size, duration, err)
	if err != nil {
		capitan.Error(ctx, SignalEncodeComplete, fields...)
		return
	}
	capitan.Emit(ctx, SignalEncodeComplete, fields...)
}

// emitDecodeComplete emits an event when a binary decode finishes.
func emitDecodeComplete(ctx context.Context, typeName string, size int, duration time.Duration, err error) {
	fields := completeFields(typeName, size, duration, err)
	if err != nil {
		capitan.Error(ctx, SignalDecodeComplete, fields...)
		return
	}
	capitan.Emit(ctx, SignalDecodeComplete, fields...)
}

// emitTextWrite emits an event when a text document has been written.
func emitTextWrite(ctx context.Context, typeName string, size int, duration time.Duration, err error) {
	fields := completeFields(typeName, size, duration, err)
	if err != nil {
		capitan.Error(ctx, SignalTextWrite, fields...)
		return
	}
	capitan.Emit(ctx, SignalTextWrite, fields...)
}

// emitTextRead emits an event when a text document has been read.
func emitTextRead(ctx context.Context, typeName string, size int, duration time.Duration, err error) {
	fields := completeFields(typeName, size, duration, err)
	if err != nil {
		capitan.Error(ctx, SignalTextRead, fields...)
		return
	}
	capitan.Emit(ctx, SignalTextRead, fields...)
}

// emitExportComplete emits an event when a document export finishes.
func emitExportComplete(ctx context.Context, contentType, typeName string, size int, duration time.Duration, err error) {
	fields := append(completeFields(typeName, size, duration, err), KeyContentType.Field(contentType))
	if err != nil {
		capitan.Error(ctx, SignalExportComplete, fields...)
		return
	}
	capitan.Emit(ctx, SignalExportComplete, fields...)
}

// emitImportComplete emits an event when a document import finishes.
func emitImportComplete(ctx context.Context, contentType, typeName string, size int, duration time.Duration, err error) {
	fields := append(completeFields(typeName, size, duration, err), KeyContentType.Field(contentType))
	if err != nil {
		capitan.Error(ctx, SignalImportComplete, fields...)
		return
	}
	capitan.Emit(ctx, SignalImportComplete, fields...)
}
