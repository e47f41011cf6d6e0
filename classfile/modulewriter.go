package classfile

// ModuleWriter implements ModuleVisitor, accumulating the components of a
// module-info class's Module attribute for later serialization.
type ModuleWriter struct {
	symbolTable *SymbolTable

	name    string
	access  int
	version string

	mainClass string

	packages []string

	requires []moduleRequire
	exports  []moduleExportOrOpen
	opens    []moduleExportOrOpen
	uses     []string
	provides []moduleProvide
}

type moduleRequire struct {
	module, version string
	access          int
}

type moduleExportOrOpen struct {
	packaze string
	access  int
	modules []string
}

type moduleProvide struct {
	service   string
	providers []string
}

func NewModuleWriter(symbolTable *SymbolTable, name string, access int, version string) *ModuleWriter {
	return &ModuleWriter{symbolTable: symbolTable, name: name, access: access, version: version}
}

func (mw *ModuleWriter) VisitMainClass(mainClass string) {
	mw.mainClass = mainClass
	mw.symbolTable.AddConstantClass(mainClass)
}

func (mw *ModuleWriter) VisitPackage(packaze string) {
	mw.packages = append(mw.packages, packaze)
	mw.symbolTable.AddConstantPackage(packaze)
}

func (mw *ModuleWriter) VisitRequire(module string, access int, version string) {
	mw.requires = append(mw.requires, moduleRequire{module, version, access})
	mw.symbolTable.AddConstantModule(module)
	if version != "" {
		mw.symbolTable.AddConstantUtf8(version)
	}
}

func (mw *ModuleWriter) VisitExport(packaze string, access int, modules ...string) {
	mw.exports = append(mw.exports, moduleExportOrOpen{packaze, access, modules})
	mw.symbolTable.AddConstantPackage(packaze)
	for _, m := range modules {
		mw.symbolTable.AddConstantModule(m)
	}
}

func (mw *ModuleWriter) VisitOpen(packaze string, access int, modules ...string) {
	mw.opens = append(mw.opens, moduleExportOrOpen{packaze, access, modules})
	mw.symbolTable.AddConstantPackage(packaze)
	for _, m := range modules {
		mw.symbolTable.AddConstantModule(m)
	}
}

func (mw *ModuleWriter) VisitUse(service string) {
	mw.uses = append(mw.uses, service)
	mw.symbolTable.AddConstantClass(service)
}

func (mw *ModuleWriter) VisitProvide(service string, providers ...string) {
	mw.provides = append(mw.provides, moduleProvide{service, providers})
	mw.symbolTable.AddConstantClass(service)
	for _, p := range providers {
		mw.symbolTable.AddConstantClass(p)
	}
}

func (mw *ModuleWriter) VisitEnd() {}

func (mw *ModuleWriter) computeModuleAttributesSize() int {
	size := 6 + 16 // Module attribute header + name/flags/version + the 5 count fields
	for _, r := range mw.requires {
		size += 6
		_ = r
	}
	for _, e := range mw.exports {
		size += 4 + 2*len(e.modules)
	}
	for _, o := range mw.opens {
		size += 4 + 2*len(o.modules)
	}
	size += 2 * len(mw.uses)
	for _, p := range mw.provides {
		size += 4 + 2*len(p.providers)
	}
	total := size
	if mw.mainClass != "" {
		total += 8
		mw.symbolTable.AddConstantUtf8("ModuleMainClass")
	}
	if len(mw.packages) > 0 {
		total += 8 + 2*len(mw.packages)
		mw.symbolTable.AddConstantUtf8("ModulePackages")
	}
	mw.symbolTable.AddConstantUtf8("Module")
	return total
}

func (mw *ModuleWriter) attributeCountContribution() int {
	count := 1
	if mw.mainClass != "" {
		count++
	}
	if len(mw.packages) > 0 {
		count++
	}
	return count
}

func (mw *ModuleWriter) put(output *ByteVector) {
	content := NewByteVector(64)
	content.PutShort(mw.symbolTable.AddConstantModule(mw.name)).
		PutShort(mw.access & 0xFFFF)
	versionIndex := 0
	if mw.version != "" {
		versionIndex = mw.symbolTable.AddConstantUtf8(mw.version)
	}
	content.PutShort(versionIndex)

	content.PutShort(len(mw.requires))
	for _, r := range mw.requires {
		versionIdx := 0
		if r.version != "" {
			versionIdx = mw.symbolTable.AddConstantUtf8(r.version)
		}
		content.PutShort(mw.symbolTable.AddConstantModule(r.module)).
			PutShort(r.access & 0xFFFF).
			PutShort(versionIdx)
	}

	content.PutShort(len(mw.exports))
	for _, e := range mw.exports {
		content.PutShort(mw.symbolTable.AddConstantPackage(e.packaze)).
			PutShort(e.access & 0xFFFF).
			PutShort(len(e.modules))
		for _, m := range e.modules {
			content.PutShort(mw.symbolTable.AddConstantModule(m))
		}
	}

	content.PutShort(len(mw.opens))
	for _, o := range mw.opens {
		content.PutShort(mw.symbolTable.AddConstantPackage(o.packaze)).
			PutShort(o.access & 0xFFFF).
			PutShort(len(o.modules))
		for _, m := range o.modules {
			content.PutShort(mw.symbolTable.AddConstantModule(m))
		}
	}

	content.PutShort(len(mw.uses))
	for _, u := range mw.uses {
		content.PutShort(mw.symbolTable.AddConstantClass(u))
	}

	content.PutShort(len(mw.provides))
	for _, p := range mw.provides {
		content.PutShort(mw.symbolTable.AddConstantClass(p.service)).PutShort(len(p.providers))
		for _, pr := range p.providers {
			content.PutShort(mw.symbolTable.AddConstantClass(pr))
		}
	}

	output.PutShort(mw.symbolTable.AddConstantUtf8("Module")).PutInt(content.Len())
	output.PutBytes(content.Bytes())

	if mw.mainClass != "" {
		output.PutShort(mw.symbolTable.AddConstantUtf8("ModuleMainClass")).PutInt(2)
		output.PutShort(mw.symbolTable.AddConstantClass(mw.mainClass))
	}
	if len(mw.packages) > 0 {
		output.PutShort(mw.symbolTable.AddConstantUtf8("ModulePackages")).PutInt(2 + 2*len(mw.packages))
		output.PutShort(len(mw.packages))
		for _, p := range mw.packages {
			output.PutShort(mw.symbolTable.AddConstantPackage(p))
		}
	}
}
