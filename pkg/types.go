package pkg

import "github.com/hansbonini/gcmtools/pkg/gc"

// DiscDumper interface defines methods for inspecting and extracting
// GameCube disc images
type DiscDumper interface {
	Info(inputFile string, yamlOutput string) error
	List(inputFile string, directory string, showSize bool) error
	Read(inputFile string, internalPath string, outputFile string, offset int64, length int64) error
	Write(inputFile string, internalPath string, sourceFile string, offset int64) error
	Dump(inputFile string, outputDir string) error
}

// DOLInspector interface defines methods for analyzing DOL executables
type DOLInspector interface {
	Info(inputFile string, raw bool) error
	Map(inputFile string, raw bool, value uint32, toFileOffset bool) error
	Contiguous(inputFile string, raw bool, start uint32, end uint32, byMemAddress bool) error
}

// BannerExporter interface defines methods for exporting banner data
type BannerExporter interface {
	ExportImage(banner *gc.Banner, outputPath string) error
	ExportMetadata(banner *gc.Banner, outputPath string) error
}
