// Command migrate imports a directory of authored documents into the content
// database: .json files as block documents, .md files as legacy markdown.
// A sidecar <name>.images.json manifest re-seeds the document's image list.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/technoflash/technoflash/internal/db"
	"github.com/technoflash/technoflash/internal/model"
	"github.com/technoflash/technoflash/internal/registry"
	"github.com/technoflash/technoflash/internal/repository"
	"github.com/technoflash/technoflash/internal/util"
	"github.com/technoflash/technoflash/internal/util/compression"
	_ "github.com/mattn/go-sqlite3"
)

type imageManifestEntry struct {
	URL     string `json:"url"`
	Caption string `json:"caption"`
	AltText string `json:"altText"`
}

func main() {
	path := flag.String("path", "", "Path to the directory containing document files")
	author := flag.String("author", "", "Author name recorded on imported documents")
	dbPath := flag.String("db", "./database.db", "Path to the SQLite database")
	flag.Parse()

	if *path == "" {
		log.Fatal("The --path flag is required")
	}

	database := db.NewSQLite(*dbPath)
	if err := database.InitDB(); err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}
	defer database.Close()

	repo := repository.NewDBDocumentRepository(database, compression.ZstdCompressor{}, 0)
	images := registry.NewSQLRegistry(database)

	files, err := os.ReadDir(*path)
	if err != nil {
		log.Fatalf("Error reading directory %s: %v", *path, err)
	}

	for _, file := range files {
		if file.IsDir() || strings.HasSuffix(file.Name(), ".images.json") {
			continue
		}

		switch {
		case strings.HasSuffix(file.Name(), ".json"), strings.HasSuffix(file.Name(), ".md"):
			if err := processFile(*path, file, repo, images, *author); err != nil {
				log.Printf("Error processing file %s: %v", file.Name(), err)
				continue
			}
			log.Printf("Imported document from file: %s", file.Name())
		}
	}
}

func processFile(dirPath string, file os.DirEntry, repo repository.DocumentRepository, images registry.Registry, author string) error {
	filePath := filepath.Join(dirPath, file.Name())

	content, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}

	name := strings.TrimSuffix(strings.TrimSuffix(file.Name(), ".json"), ".md")
	title := name

	fileInfo, err := file.Info()
	if err != nil {
		return err
	}
	createdDate := fileInfo.ModTime().UTC()

	if strings.HasSuffix(file.Name(), ".md") {
		if frontMatter, err := util.GetFrontMatter(content); err == nil {
			if frontMatter.Title != "" {
				title = frontMatter.Title
			}
			if !frontMatter.Date.IsZero() {
				createdDate = frontMatter.Date.UTC()
			}
			if author == "" {
				author = frontMatter.Author
			}
		}
	}

	// Re-running the import must update in place, so document IDs derive from
	// the file name instead of being random.
	doc := &model.Document{
		ID:           model.DocumentID(util.ContentHashString(name)),
		Title:        title,
		Author:       author,
		Content:      content,
		CreatedDate:  createdDate,
		ModifiedDate: fileInfo.ModTime().UTC(),
	}

	if err := repo.SaveDocument(doc); err != nil {
		// Already imported; replace the content instead.
		if err := repo.SetDocumentContent(doc); err != nil {
			return err
		}
	}

	return seedImages(dirPath, name, doc.ID, images)
}

// seedImages replaces the document's image list with the sidecar manifest, in
// manifest order.
func seedImages(dirPath, name string, documentID model.DocumentID, images registry.Registry) error {
	manifest, err := os.ReadFile(filepath.Join(dirPath, name+".images.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var entries []imageManifestEntry
	if err := json.Unmarshal(manifest, &entries); err != nil {
		return err
	}

	if err := images.RemoveAll(documentID); err != nil {
		return err
	}

	for _, entry := range entries {
		if _, err := images.Attach(documentID, entry.URL, entry.Caption, entry.AltText); err != nil {
			return err
		}
	}

	log.Printf("Seeded %d images for document %s", len(entries), name)
	return nil
}
