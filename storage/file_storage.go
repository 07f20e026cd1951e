package storage

import (
	"context"
	"fmt"
	"io/ioutil"
	"os"
	"path"

	"github.com/colinmarc/hdfs/v2"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const hdfsRoot = "/hotel"

// FileStorage keeps avatar and room images on HDFS, one directory per
// owner (user id or room id).
type FileStorage struct {
	client *hdfs.Client
	logger *logrus.Logger
	tracer trace.Tracer
}

func New(hdfsUri string, logger *logrus.Logger, tracer trace.Tracer) (*FileStorage, error) {
	client, err := hdfs.New(hdfsUri)
	if err != nil {
		logger.Panic(err)
		return nil, err
	}

	return &FileStorage{
		client: client,
		logger: logger,
		tracer: tracer,
	}, nil
}

func (fs *FileStorage) Close() {
	fs.client.Close()
}

func (fs *FileStorage) CreateDirectoriesStart() error {
	err := fs.client.MkdirAll(hdfsRoot, 0644)
	if err != nil {
		fs.logger.Println(err)
		return err
	}
	return nil
}

func (fs *FileStorage) CreateDirectory(folderName string) error {
	folderPath := path.Join(hdfsRoot, folderName)
	err := fs.client.MkdirAll(folderPath, 0644)
	if err != nil {
		fs.logger.Printf("Error creating directory %s: %v", folderPath, err)
		return err
	}
	return nil
}

func (fs *FileStorage) SaveFile(ctx context.Context, folderName, fileName string, content []byte) error {
	ctx, span := fs.tracer.Start(ctx, "FileStorage.SaveFile")
	defer span.End()

	folderPath := path.Join(hdfsRoot, folderName)
	filePath := path.Join(folderPath, fileName)

	if err := fs.CreateDirectory(folderName); err != nil {
		span.SetStatus(codes.Error, err.Error())
		fs.logger.Printf("Error creating directory: %v", err)
		return err
	}

	file, err := fs.client.Create(filePath)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		fs.logger.Printf("Error creating file %s: %v", filePath, err)
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			span.SetStatus(codes.Error, closeErr.Error())
			fs.logger.Printf("Error closing file: %v", closeErr)
		}
	}()

	if _, err := file.Write(content); err != nil {
		span.SetStatus(codes.Error, err.Error())
		fs.logger.Printf("Error writing file content: %v", err)
		return err
	}

	return nil
}

func (fs *FileStorage) GetFileNames(ctx context.Context, folderName string) ([]string, error) {
	ctx, span := fs.tracer.Start(ctx, "FileStorage.GetFileNames")
	defer span.End()

	folderPath := path.Join(hdfsRoot, folderName)
	var fileNames []string

	callbackFunc := func(filePath string, info os.FileInfo, err error) error {
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			fs.logger.Println(err)
			return err
		}
		if !info.IsDir() {
			fileNames = append(fileNames, path.Base(filePath))
		}
		return nil
	}

	err := fs.client.Walk(folderPath, callbackFunc)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		fs.logger.Println(err)
		return nil, err
	}

	return fileNames, nil
}

func (fs *FileStorage) GetFileContent(ctx context.Context, filePath string) ([]byte, error) {
	ctx, span := fs.tracer.Start(ctx, "FileStorage.GetFileContent")
	defer span.End()

	fullPath := path.Join(hdfsRoot, "/", filePath)

	file, err := fs.client.Open(fullPath)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		fs.logger.Println(err)
		return nil, fmt.Errorf("error opening file: %v", err)
	}
	defer file.Close()

	content, err := ioutil.ReadAll(file)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		fs.logger.Println(err)
		return nil, fmt.Errorf("error reading file: %v", err)
	}

	return content, nil
}

// DeleteFile removes a stored file, used to roll back an avatar upload when
// the profile row update fails afterwards.
func (fs *FileStorage) DeleteFile(ctx context.Context, folderName, fileName string) error {
	ctx, span := fs.tracer.Start(ctx, "FileStorage.DeleteFile")
	defer span.End()

	filePath := path.Join(hdfsRoot, folderName, fileName)
	err := fs.client.Remove(filePath)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		fs.logger.Printf("Error deleting file %s: %v", filePath, err)
		return err
	}
	return nil
}
