package site

import (
	"context"

	"github.com/rpupo63/portfolio-site-backend/database"
	"github.com/rpupo63/portfolio-site-backend/errs"
	"golang.org/x/sync/errgroup"
)

// Load reads every section concurrently. Any read failure fails the whole
// document; a missing profile does not.
func Load(ctx context.Context, db database.Database) (Document, error) {
	var doc Document
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		p, err := db.ProfileRepo().Get(ctx)
		if errs.IsNotFound(err) {
			return nil
		}
		if err != nil {
			return err
		}
		doc.Profile = BuildProfile(p)
		return nil
	})
	g.Go(func() error {
		rows, err := db.ProjectRepo().List(ctx, database.OrderCreated)
		if err != nil {
			return err
		}
		doc.Projects = BuildProjects(rows)
		return nil
	})
	g.Go(func() error {
		rows, err := db.SkillRepo().List(ctx, database.OrderSort)
		if err != nil {
			return err
		}
		doc.Skills = GroupSkills(rows)
		return nil
	})
	g.Go(func() error {
		rows, err := db.ExperienceRepo().List(ctx, database.OrderSort)
		if err != nil {
			return err
		}
		doc.Experience = GroupExperience(rows)
		return nil
	})
	g.Go(func() error {
		rows, err := db.CertificateRepo().List(ctx, database.OrderCreated)
		if err != nil {
			return err
		}
		doc.Certificates = BuildCertificates(rows)
		return nil
	})
	g.Go(func() error {
		rows, err := db.ContactMethodRepo().List(ctx, database.OrderSort)
		if err != nil {
			return err
		}
		doc.ContactMethods = BuildContactMethods(rows)
		return nil
	})

	if err := g.Wait(); err != nil {
		return Document{}, err
	}
	return doc, nil
}
