package classfile

import (
	"fmt"
	"math"

	"github.com/gobytecode/classfile/classfile/symbol"
)

// entry is one constant-pool slot. Content-addressing is implemented with a Go map keyed by Entry.key()
// rather than the hand-rolled hash-bucket-with-next-pointer table real ASM
// uses internally: a map is the idiomatic Go way to express the same
// invariant and needs no resize/rehash bookkeeping of its own.
type entry struct {
	index  int
	tag    int
	owner  string
	name   string
	value  string
	data   int64 // raw bits for Integer/Float/Long/Double; NameAndType/ref second index; bootstrap method attr index for Dynamic/InvokeDynamic
	data2  int64
}

func (e entry) key() string {
	return fmt.Sprintf("%d|%s|%s|%s|%d|%d", e.tag, e.owner, e.name, e.value, e.data, e.data2)
}

// bootstrapMethod is one entry of the BootstrapMethods attribute: a method
// handle constant-pool index plus its static argument constant-pool indices.
type bootstrapMethod struct {
	methodHandleIndex int
	argumentIndexes   []int
}

func (b bootstrapMethod) key() string {
	return fmt.Sprintf("%d|%v", b.methodHandleIndex, b.argumentIndexes)
}

// typeTableEntry is a Frame Engine private type: an interned internal name, or an uninitialized-reference marker
// pinning the bytecode offset of the NEW that produced it.
type typeTableEntry struct {
	kind           int // symbol.TYPE_TAG | symbol.UNINITIALIZED_TYPE_TAG | symbol.MERGED_TYPE_TAG
	value          string
	bytecodeOffset int
}

// TypeResolver answers the one question the Frame Engine cannot derive from
// the bytecode alone: the common supertype of two internal names. The zero
// value (NoResolver) always answers "java/lang/Object", the JVMS-mandated
// fallback for unrelated types or interfaces. No class-hierarchy oracle is
// available here, so this is the one deliberately stdlib-only piece of the
// engine (see DESIGN.md).
type TypeResolver interface {
	CommonSuperType(internalNameA, internalNameB string) string
}

// NoResolver is the default TypeResolver.
type NoResolver struct{}

func (NoResolver) CommonSuperType(string, string) string { return "java/lang/Object" }

// SymbolTable is the constant pool and bootstrap-methods table of a class
// being built, plus the Frame Engine's private type table.
type SymbolTable struct {
	resolver TypeResolver

	constantPoolCount int
	entries           map[string]*entry
	byIndex           []*entry // 1-based; index 0 unused
	pool              *ByteVector

	bootstrapMethods      []*bootstrapMethod
	bootstrapMethodsByKey map[string]int

	typeTable      []typeTableEntry
	typeTableByKey map[string]int

	// sourceReader, when non-nil, is the reader this table was seeded from
	//: the writer may then copy a
	// method's raw bytes verbatim because indices are shared.
	sourceReader *ClassReader
}

// NewSymbolTable returns an empty symbol table (index 0 reserved).
func NewSymbolTable(resolver TypeResolver) *SymbolTable {
	if resolver == nil {
		resolver = NoResolver{}
	}
	return &SymbolTable{
		resolver:              resolver,
		constantPoolCount:      1,
		entries:                make(map[string]*entry),
		byIndex:                []*entry{nil},
		pool:                   NewByteVector(256),
		bootstrapMethodsByKey:  make(map[string]int),
		typeTableByKey:         make(map[string]int),
	}
}

// NewSymbolTableFromReader seeds a symbol table from an already-parsed
// class, copying its constant pool bytes verbatim so indices stay valid
// for a fast-copy writer built from it.
func NewSymbolTableFromReader(reader *ClassReader, resolver TypeResolver) (*SymbolTable, error) {
	reader.logger.Debugw("event", "fast-copy constant pool", "entries", reader.getItemCount())
	t := NewSymbolTable(resolver)
	t.sourceReader = reader
	count := reader.getItemCount()
	t.constantPoolCount = count
	t.byIndex = make([]*entry, count)
	charBuffer := make([]rune, reader.maxStringLength)
	i := 1
	for i < count {
		itemOffset := reader.cpInfoOffsets[i]
		tag := int(reader.b[itemOffset-1])
		var itemSize int
		e := &entry{index: i, tag: tag}
		switch tag {
		case symbol.CONSTANT_CLASS_TAG, symbol.CONSTANT_STRING_TAG, symbol.CONSTANT_METHOD_TYPE_TAG,
			symbol.CONSTANT_MODULE_TAG, symbol.CONSTANT_PACKAGE_TAG:
			e.value = reader.readUTF8(itemOffset, charBuffer)
			itemSize = 2
		case symbol.CONSTANT_INTEGER_TAG:
			e.data = int64(uint32(reader.readInt(itemOffset)))
			itemSize = 4
		case symbol.CONSTANT_FLOAT_TAG:
			e.data = int64(uint32(reader.readInt(itemOffset)))
			itemSize = 4
		case symbol.CONSTANT_LONG_TAG:
			e.data = reader.readLong(itemOffset)
			itemSize = 8
		case symbol.CONSTANT_DOUBLE_TAG:
			e.data = reader.readLong(itemOffset)
			itemSize = 8
		case symbol.CONSTANT_NAME_AND_TYPE_TAG:
			e.name = reader.readUTF8(itemOffset, charBuffer)
			e.value = reader.readUTF8(itemOffset+2, charBuffer)
			itemSize = 4
		case symbol.CONSTANT_FIELDREF_TAG, symbol.CONSTANT_METHODREF_TAG, symbol.CONSTANT_INTERFACE_METHODREF_TAG:
			classIdx := reader.readUnsignedShort(itemOffset)
			natIdx := reader.readUnsignedShort(itemOffset + 2)
			e.data = int64(classIdx)
			e.data2 = int64(natIdx)
			itemSize = 4
		case symbol.CONSTANT_METHOD_HANDLE_TAG:
			e.data = int64(reader.readByte(itemOffset))
			e.data2 = int64(reader.readUnsignedShort(itemOffset + 1))
			itemSize = 3
		case symbol.CONSTANT_DYNAMIC_TAG, symbol.CONSTANT_INVOKE_DYNAMIC_TAG:
			e.data = int64(reader.readUnsignedShort(itemOffset))
			e.data2 = int64(reader.readUnsignedShort(itemOffset + 2))
			itemSize = 4
		case symbol.CONSTANT_UTF8_TAG:
			e.value = reader.readUTF(i, charBuffer)
			itemSize = 0 // readUTF/readItem consumers use cpInfoOffsets, not size stepping here
		default:
			reader.logger.Errorw("event", "malformed constant pool entry", "offset", itemOffset-1, "reason", "unknown constant pool tag")
			return nil, &MalformedClassFileError{Offset: itemOffset - 1, Reason: "unknown constant pool tag"}
		}
		t.byIndex[i] = e
		t.entries[e.key()] = e
		if tag == symbol.CONSTANT_LONG_TAG || tag == symbol.CONSTANT_DOUBLE_TAG {
			i += 2
		} else {
			i++
		}
		_ = itemSize
	}
	// Copy the raw constant-pool bytes verbatim into the output pool so a
	// class with no further additions writes back byte-identical content.
	t.pool.PutBytes(reader.b[reader.cpInfoOffsets[1]-1 : reader.header])
	return t, nil
}

func (t *SymbolTable) nextEntry(e *entry) int {
	if existing, ok := t.entries[e.key()]; ok {
		return existing.index
	}
	e.index = t.constantPoolCount
	t.constantPoolCount++
	t.entries[e.key()] = e
	t.byIndex = append(t.byIndex, e)
	return e.index
}

// ConstantPoolCount returns cp_count (one more than the number of usable
// entries, since index 0 is reserved).
func (t *SymbolTable) ConstantPoolCount() int { return t.constantPoolCount }

// AddConstantUtf8 interns a Utf8 constant.
func (t *SymbolTable) AddConstantUtf8(value string) int {
	e := &entry{tag: symbol.CONSTANT_UTF8_TAG, value: value}
	if existing, ok := t.entries[e.key()]; ok {
		return existing.index
	}
	idx := t.nextEntry(e)
	t.pool.PutByte(symbol.CONSTANT_UTF8_TAG).PutUTF8(value)
	return idx
}

func (t *SymbolTable) addConstantValue(tag int, data int64) int {
	e := &entry{tag: tag, data: data}
	if existing, ok := t.entries[e.key()]; ok {
		return existing.index
	}
	idx := t.nextEntry(e)
	switch tag {
	case symbol.CONSTANT_INTEGER_TAG, symbol.CONSTANT_FLOAT_TAG:
		t.pool.PutByte(tag).PutInt(int(int32(data)))
	case symbol.CONSTANT_LONG_TAG, symbol.CONSTANT_DOUBLE_TAG:
		t.pool.PutByte(tag).PutLong(data)
		t.constantPoolCount++ // long/double consume two slots
	}
	return idx
}

// AddConstantInteger interns an Integer constant.
func (t *SymbolTable) AddConstantInteger(value int32) int {
	return t.addConstantValue(symbol.CONSTANT_INTEGER_TAG, int64(uint32(value)))
}

// AddConstantFloat interns a Float constant.
func (t *SymbolTable) AddConstantFloat(value float32) int {
	return t.addConstantValue(symbol.CONSTANT_FLOAT_TAG, int64(math.Float32bits(value)))
}

// AddConstantLong interns a Long constant (consumes two pool slots).
func (t *SymbolTable) AddConstantLong(value int64) int {
	return t.addConstantValue(symbol.CONSTANT_LONG_TAG, value)
}

// AddConstantDouble interns a Double constant (consumes two pool slots).
func (t *SymbolTable) AddConstantDouble(value float64) int {
	return t.addConstantValue(symbol.CONSTANT_DOUBLE_TAG, int64(math.Float64bits(value)))
}

func (t *SymbolTable) addConstantUtf8Ref(tag int, value string) int {
	utf8 := t.AddConstantUtf8(value)
	e := &entry{tag: tag, value: value}
	if existing, ok := t.entries[e.key()]; ok {
		return existing.index
	}
	idx := t.nextEntry(e)
	t.pool.PutByte(tag).PutShort(utf8)
	return idx
}

// AddConstantClass interns a Class constant for the given internal name.
func (t *SymbolTable) AddConstantClass(internalName string) int {
	return t.addConstantUtf8Ref(symbol.CONSTANT_CLASS_TAG, internalName)
}

// AddConstantString interns a String constant.
func (t *SymbolTable) AddConstantString(value string) int {
	return t.addConstantUtf8Ref(symbol.CONSTANT_STRING_TAG, value)
}

// AddConstantMethodType interns a MethodType constant.
func (t *SymbolTable) AddConstantMethodType(methodDescriptor string) int {
	return t.addConstantUtf8Ref(symbol.CONSTANT_METHOD_TYPE_TAG, methodDescriptor)
}

// AddConstantModule interns a Module constant.
func (t *SymbolTable) AddConstantModule(moduleName string) int {
	return t.addConstantUtf8Ref(symbol.CONSTANT_MODULE_TAG, moduleName)
}

// AddConstantPackage interns a Package constant.
func (t *SymbolTable) AddConstantPackage(packageName string) int {
	return t.addConstantUtf8Ref(symbol.CONSTANT_PACKAGE_TAG, packageName)
}

// AddConstantNameAndType interns a NameAndType constant.
func (t *SymbolTable) AddConstantNameAndType(name, descriptor string) int {
	nameIdx := t.AddConstantUtf8(name)
	descIdx := t.AddConstantUtf8(descriptor)
	e := &entry{tag: symbol.CONSTANT_NAME_AND_TYPE_TAG, name: name, value: descriptor}
	if existing, ok := t.entries[e.key()]; ok {
		return existing.index
	}
	idx := t.nextEntry(e)
	t.pool.PutByte(symbol.CONSTANT_NAME_AND_TYPE_TAG).PutShort(nameIdx).PutShort(descIdx)
	return idx
}

func (t *SymbolTable) addConstantRef(tag int, owner, name, descriptor string) int {
	classIdx := t.AddConstantClass(owner)
	natIdx := t.AddConstantNameAndType(name, descriptor)
	e := &entry{tag: tag, owner: owner, name: name, value: descriptor}
	if existing, ok := t.entries[e.key()]; ok {
		return existing.index
	}
	idx := t.nextEntry(e)
	t.pool.PutByte(tag).PutShort(classIdx).PutShort(natIdx)
	return idx
}

// AddConstantFieldref interns a Fieldref constant.
func (t *SymbolTable) AddConstantFieldref(owner, name, descriptor string) int {
	return t.addConstantRef(symbol.CONSTANT_FIELDREF_TAG, owner, name, descriptor)
}

// AddConstantMethodref interns a Methodref or InterfaceMethodref constant.
func (t *SymbolTable) AddConstantMethodref(owner, name, descriptor string, isInterface bool) int {
	tag := symbol.CONSTANT_METHODREF_TAG
	if isInterface {
		tag = symbol.CONSTANT_INTERFACE_METHODREF_TAG
	}
	return t.addConstantRef(tag, owner, name, descriptor)
}

// AddConstantMethodHandle interns a MethodHandle constant.
func (t *SymbolTable) AddConstantMethodHandle(referenceKind int, owner, name, descriptor string, isInterface bool) int {
	refIdx := t.AddConstantMethodref(owner, name, descriptor, isInterface)
	if referenceKind <= 4 { // H_GETFIELD..H_PUTSTATIC reference a field, not a method
		refIdx = t.addConstantRef(symbol.CONSTANT_FIELDREF_TAG, owner, name, descriptor)
	}
	e := &entry{tag: symbol.CONSTANT_METHOD_HANDLE_TAG, owner: owner, name: name, value: descriptor, data: int64(referenceKind)}
	if existing, ok := t.entries[e.key()]; ok {
		return existing.index
	}
	idx := t.nextEntry(e)
	t.pool.PutByte(symbol.CONSTANT_METHOD_HANDLE_TAG).PutByte(referenceKind).PutShort(refIdx)
	return idx
}

// addBootstrapMethod interns a bootstrap method table entry, returning its
// index.
func (t *SymbolTable) addBootstrapMethod(handle *Handle, arguments []interface{}) int {
	methodHandleIndex := t.AddConstantMethodHandle(handle.Tag, handle.Owner, handle.Name, handle.Descriptor, handle.IsInterface)
	argIndexes := make([]int, len(arguments))
	for i, arg := range arguments {
		argIndexes[i] = t.addConstantFromValue(arg)
	}
	bm := &bootstrapMethod{methodHandleIndex: methodHandleIndex, argumentIndexes: argIndexes}
	key := bm.key()
	if idx, ok := t.bootstrapMethodsByKey[key]; ok {
		return idx
	}
	idx := len(t.bootstrapMethods)
	t.bootstrapMethods = append(t.bootstrapMethods, bm)
	t.bootstrapMethodsByKey[key] = idx
	return idx
}

func (t *SymbolTable) addConstantFromValue(value interface{}) int {
	switch v := value.(type) {
	case int32:
		return t.AddConstantInteger(v)
	case int:
		return t.AddConstantInteger(int32(v))
	case float32:
		return t.AddConstantFloat(v)
	case int64:
		return t.AddConstantLong(v)
	case float64:
		return t.AddConstantDouble(v)
	case string:
		return t.AddConstantString(v)
	case Type:
		if v.Sort() == 11 { // typed.METHOD
			return t.AddConstantMethodType(v.Descriptor())
		}
		return t.AddConstantClass(v.InternalName())
	case *Handle:
		return t.AddConstantMethodHandle(v.Tag, v.Owner, v.Name, v.Descriptor, v.IsInterface)
	case *ConstantDynamic:
		return t.AddConstantDynamic(v.Name, v.Descriptor, v.BootstrapMethod, v.BootstrapMethodArguments)
	default:
		panic(fmt.Sprintf("unsupported constant value type %T", value))
	}
}

func (t *SymbolTable) addConstantDynamicOrInvokeDynamic(tag int, name, descriptor string, handle *Handle, arguments []interface{}) int {
	bmIndex := t.addBootstrapMethod(handle, arguments)
	natIdx := t.AddConstantNameAndType(name, descriptor)
	e := &entry{tag: tag, name: name, value: descriptor, data: int64(bmIndex)}
	if existing, ok := t.entries[e.key()]; ok {
		return existing.index
	}
	idx := t.nextEntry(e)
	t.pool.PutByte(tag).PutShort(bmIndex).PutShort(natIdx)
	return idx
}

// AddConstantDynamic interns a Dynamic (JVMS CONSTANT_Dynamic) constant.
func (t *SymbolTable) AddConstantDynamic(name, descriptor string, handle *Handle, arguments []interface{}) int {
	return t.addConstantDynamicOrInvokeDynamic(symbol.CONSTANT_DYNAMIC_TAG, name, descriptor, handle, arguments)
}

// AddConstantInvokeDynamic interns an InvokeDynamic constant.
func (t *SymbolTable) AddConstantInvokeDynamic(name, descriptor string, handle *Handle, arguments []interface{}) int {
	return t.addConstantDynamicOrInvokeDynamic(symbol.CONSTANT_INVOKE_DYNAMIC_TAG, name, descriptor, handle, arguments)
}

// HasBootstrapMethods reports whether any bootstrap method has been
// interned, i.e. whether a BootstrapMethods attribute must be emitted.
func (t *SymbolTable) HasBootstrapMethods() bool { return len(t.bootstrapMethods) > 0 }

// PutConstantPool serializes the constant pool: cp_count followed by every
// entry's bytes, in index order.
func (t *SymbolTable) PutConstantPool(out *ByteVector) {
	out.PutShort(t.constantPoolCount)
	out.PutBytes(t.pool.Bytes())
}

// PutBootstrapMethods serializes the BootstrapMethods attribute body (not
// including the attribute name/length header, written by the caller).
func (t *SymbolTable) PutBootstrapMethods(out *ByteVector) {
	out.PutShort(len(t.bootstrapMethods))
	for _, bm := range t.bootstrapMethods {
		out.PutShort(bm.methodHandleIndex)
		out.PutShort(len(bm.argumentIndexes))
		for _, a := range bm.argumentIndexes {
			out.PutShort(a)
		}
	}
}

// BootstrapMethodsSize returns the byte size of the BootstrapMethods
// attribute body, used while computing total class-file size up front.
func (t *SymbolTable) BootstrapMethodsSize() int {
	size := 2
	for _, bm := range t.bootstrapMethods {
		size += 4 + 2*len(bm.argumentIndexes)
	}
	return size
}

// constantPoolSize returns the byte size of the cp_count field plus every
// constant pool entry's bytes, used while computing total class-file size.
func (t *SymbolTable) constantPoolSize() int {
	return 2 + t.pool.Len()
}

// --- Frame Engine private type table ---

func (t *SymbolTable) addTypeEntry(e typeTableEntry, key string) int {
	if idx, ok := t.typeTableByKey[key]; ok {
		return idx
	}
	idx := len(t.typeTable)
	t.typeTable = append(t.typeTable, e)
	t.typeTableByKey[key] = idx
	return idx
}

// AddType interns a reference type by internal name, returning a type-table
// index (distinct from the constant-pool index space).
func (t *SymbolTable) AddType(internalName string) int {
	return t.addTypeEntry(typeTableEntry{kind: symbol.TYPE_TAG, value: internalName}, "T|"+internalName)
}

// AddUninitializedType interns an "uninitialized" type pinning the
// bytecode offset of the NEW instruction that produced it.
func (t *SymbolTable) AddUninitializedType(internalName string, bytecodeOffset int) int {
	key := fmt.Sprintf("U|%s|%d", internalName, bytecodeOffset)
	return t.addTypeEntry(typeTableEntry{kind: symbol.UNINITIALIZED_TYPE_TAG, value: internalName, bytecodeOffset: bytecodeOffset}, key)
}

// AddMergedType interns the common supertype of the two type-table entries
// a and b, computed via CommonSupertype, and returns its type-table index,
// caching the result so repeated merges of the same pair are free.
func (t *SymbolTable) AddMergedType(a, b int) int {
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	key := fmt.Sprintf("M|%d|%d", lo, hi)
	if idx, ok := t.typeTableByKey[key]; ok {
		return idx
	}
	nameA := t.typeTable[a].value
	nameB := t.typeTable[b].value
	merged := t.CommonSupertype(nameA, nameB)
	return t.addTypeEntry(typeTableEntry{kind: symbol.MERGED_TYPE_TAG, value: merged}, key)
}

// TypeTableEntry returns the interned type at the given type-table index.
func (t *SymbolTable) TypeTableEntry(index int) (internalName string, bytecodeOffset int, uninitialized bool) {
	e := t.typeTable[index]
	return e.value, e.bytecodeOffset, e.kind == symbol.UNINITIALIZED_TYPE_TAG
}

// CommonSupertype returns the name itself when both names are identical,
// else delegates to the host TypeResolver. It does not check whether either
// side is an interface; that answer comes from the resolver alone.
func (t *SymbolTable) CommonSupertype(internalNameA, internalNameB string) string {
	if internalNameA == internalNameB {
		return internalNameA
	}
	return t.resolver.CommonSuperType(internalNameA, internalNameB)
}
